package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"kakeistat/internal/catalog"
	"kakeistat/internal/download"
	"kakeistat/internal/http/mocks"
)

func TestDownloadHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockDownloadService(ctrl)
	mux := newTestMux(mockSvc)

	tests := []struct {
		name           string
		body           string
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success with duplicates removed",
			body: `{"codes":["001"," 002","001"]}`,
			setupMock: func() {
				mockSvc.EXPECT().Item("001").Return(TestItem, nil).Times(2)
				mockSvc.EXPECT().Item("002").Return(catalog.Item{Code: "002"}, nil)
				mockSvc.EXPECT().DownloadSelection(gomock.Any(), []string{"001", "002"}).Return(download.Batch{
					ID: "batch-1",
					Results: []download.Result{
						{Code: "001", Rows: 2, Path: "data/家計調査_アイスクリーム_月次.csv"},
						{Code: "002", Error: "estat api error: invalid code"},
					},
					Saved:  1,
					Failed: 1,
				})
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"batch-1"`,
		},
		{
			name:           "malformed json",
			body:           `{"codes":`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "BAD_REQUEST",
		},
		{
			name:           "empty selection",
			body:           `{"codes":[]}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "VALIDATION_ERROR",
		},
		{
			name:           "invalid code",
			body:           `{"codes":["00/1"]}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "alphanumeric item code",
		},
		{
			name: "unknown item",
			body: `{"codes":["999"]}`,
			setupMock: func() {
				mockSvc.EXPECT().Item("999").Return(catalog.Item{}, catalog.ErrItemNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "ITEM_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/v1/downloads", strings.NewReader(tt.body))
			mux.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(downloadReq{Codes: []string{"001", "A12"}}))

	details := ValidateStruct(downloadReq{})
	if assert.Len(t, details, 1) {
		assert.Equal(t, "codes", details[0].Field)
		assert.Contains(t, details[0].Message, "required")
	}

	details = ValidateStruct(downloadReq{Codes: []string{"001", ""}})
	if assert.Len(t, details, 1) {
		assert.Equal(t, "codes[1]", details[0].Field)
	}

	tooMany := make([]string, 51)
	for i := range tooMany {
		tooMany[i] = "001"
	}
	details = ValidateStruct(downloadReq{Codes: tooMany})
	if assert.Len(t, details, 1) {
		assert.Contains(t, details[0].Message, "at most 50")
	}
}
