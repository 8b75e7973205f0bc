package prompt

import (
	"context"
	"errors"
	"io"
	"strings"

	"kakeistat/internal/catalog"
	"kakeistat/internal/download"
	"kakeistat/internal/platform/estat"
)

// Service is the part of *download.Service the session drives.
type Service interface {
	Catalog() *catalog.Catalog
	Search(keyword string) []catalog.Item
	Count(ctx context.Context, code string) (int, error)
	Download(ctx context.Context, code string) (download.Result, error)
}

// Session runs the search, count, confirm and save loop until the user
// stops, input ends or ctx is cancelled.
type Session struct {
	p   *Prompter
	svc Service
}

func NewSession(p *Prompter, svc Service) *Session {
	return &Session{p: p, svc: svc}
}

var rule = strings.Repeat("━", 50)

func (s *Session) Run(ctx context.Context) error {
	household, hasHousehold := s.svc.Catalog().DefaultHousehold()
	area, hasArea := s.svc.Catalog().DefaultArea()

	for {
		if err := ctx.Err(); err != nil {
			return s.stop(err)
		}

		s.p.Println()
		s.p.Println(rule)
		s.p.Println("  家計調査 月次支出データ取得")
		s.p.Println(rule)
		s.p.Println()

		keyword, err := s.p.Ask(ctx, "品目名を入力（例: アイス、ビール、米） > ")
		if err != nil {
			return s.stop(err)
		}
		if keyword == "" {
			continue
		}

		matched := s.svc.Search(keyword)
		if len(matched) == 0 {
			s.p.Printf("「%s」を含む品目が見つかりませんでした。\n", keyword)
			more, err := s.p.Confirm(ctx, "続けますか？")
			if err != nil {
				return s.stop(err)
			}
			if !more {
				return nil
			}
			continue
		}

		item, err := s.p.Choose(ctx, keyword, matched)
		if err != nil {
			return s.stop(err)
		}

		s.p.Println()
		s.p.Println(rule)
		s.p.Printf("  品目: %s\n", item.Label())
		s.p.Printf("  世帯: %s\n", nameOr(household, hasHousehold))
		s.p.Printf("  地域: %s\n", nameOr(area, hasArea))
		s.p.Println("  期間: 全期間")
		s.p.Println(rule)

		if done, err := s.fetch(ctx, item); err != nil || done {
			return s.stop(err)
		}
	}
}

// fetch counts, confirms and saves one item. done reports that the user
// chose to stop.
func (s *Session) fetch(ctx context.Context, item catalog.Item) (done bool, err error) {
	s.p.Println()
	s.p.Println("件数を確認中...")
	count, err := s.svc.Count(ctx, item.Code)
	if err != nil {
		s.p.Printf("エラー: %s\n", errorMessage(err))
		return false, nil
	}
	s.p.Printf("取得予定: %s 行\n", s.p.Number(count))
	if count == 0 {
		s.p.Println("データが存在しません。")
		return false, nil
	}

	ok, err := s.p.Confirm(ctx, "取得しますか？")
	if err != nil || !ok {
		return false, err
	}

	s.p.Println()
	s.p.Println("データを取得中...")
	res, err := s.svc.Download(ctx, item.Code)
	if err != nil {
		s.p.Printf("エラー: %s\n", errorMessage(err))
		return false, nil
	}
	if res.Empty {
		s.p.Println("データが存在しません。")
		return false, nil
	}
	s.p.Printf("取得完了: %s 行\n", s.p.Number(res.Rows))

	s.p.Println()
	s.p.Println(rule)
	s.p.Printf("  保存完了: %s\n", res.Path)
	s.p.Println(rule)
	s.p.Println()

	more, err := s.p.Confirm(ctx, "別の品目を検索しますか？")
	if err != nil {
		return true, err
	}
	if !more {
		s.p.Println()
		s.p.Println("ご利用ありがとうございました。")
		return true, nil
	}
	return false, nil
}

func nameOr(e catalog.Entry, ok bool) string {
	if !ok {
		return "全て"
	}
	return e.Name
}

func errorMessage(err error) string {
	var estatErr *estat.Error
	if errors.As(err, &estatErr) {
		return estatErr.Message
	}
	return err.Error()
}

// stop ends Run. End of input and an interrupt are normal exits.
func (s *Session) stop(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case errors.Is(err, context.Canceled):
		s.p.Println()
		s.p.Println("中断されました。")
		return nil
	}
	return err
}
