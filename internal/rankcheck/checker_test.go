package rankcheck

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/rankwatch/internal/extract"
	"github.com/nao1215/rankwatch/internal/llm"
	"github.com/nao1215/rankwatch/internal/model"
)

// answer returns a Service that always responds with text.
func answer(text string, sources ...model.Source) (llm.Service, *llm.Request) {
	var got llm.Request
	svc := llm.ServiceFunc(func(_ context.Context, req llm.Request) (*llm.Response, error) {
		got = req
		return &llm.Response{Text: text, Sources: sources}, nil
	})
	return svc, &got
}

func TestChecker_CheckRank(t *testing.T) {
	t.Parallel()

	text := "Here is what I found:\n```json\n" + `{
  "keyword": "flood cleanup",
  "position": "#4",
  "url": "https://www.acme-restoration.com/flood",
  "competitors": [
    {"domain": "https://www.rival.com/", "position": 2, "url": "https://rival.com/water"},
    {"domain": "acme-restoration.com", "position": 4},
    {"domain": "other.com", "position": null},
    {"domain": "RIVAL.com", "position": 3},
    {"domain": "first.com", "position": 1},
  ]
}` + "\n```\nLet me know if you need anything else."

	sources := []model.Source{{Title: "Rival", URI: "https://rival.com/water"}}
	svc, got := answer(text, sources...)
	c := New(svc)

	check, err := c.CheckRank(t.Context(), "acme-restoration.com/", "Austin, TX", "  flood cleanup ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &model.RankCheck{
		Keyword:  "flood cleanup",
		Position: model.IntPtr(4),
		URL:      "https://www.acme-restoration.com/flood",
		Competitors: []model.CompetitorRank{
			{Domain: "first.com", Position: model.IntPtr(1)},
			{Domain: "rival.com", Position: model.IntPtr(2), URL: "https://rival.com/water"},
			{Domain: "other.com"},
		},
		Sources: sources,
	}
	if diff := cmp.Diff(want, check); diff != "" {
		t.Errorf("CheckRank mismatch (-want +got):\n%s", diff)
	}

	if !got.SearchGrounding {
		t.Error("expected search grounding to be requested")
	}
	for _, part := range []string{`"flood cleanup"`, "https://acme-restoration.com", "Austin, TX"} {
		if !strings.Contains(got.Prompt, part) {
			t.Errorf("expected prompt to contain %q:\n%s", part, got.Prompt)
		}
	}
}

func TestChecker_NotFound(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		`{"keyword":"mold removal","position":null,"url":"","competitors":[]}`,
		`{"keyword":"mold removal","position":0}`,
		`{"keyword":"mold removal","position":"not found"}`,
	} {
		svc, _ := answer(text)
		check, err := New(svc).CheckRank(t.Context(), "acme.com", "", "mold removal")
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", text, err)
		}
		if check.Position != nil {
			t.Errorf("expected not found for %s, got %d", text, *check.Position)
		}
	}
}

func TestChecker_Errors(t *testing.T) {
	t.Parallel()

	t.Run("service error passes through", func(t *testing.T) {
		t.Parallel()

		svcErr := &llm.ServiceError{Err: errors.New("quota exceeded")}
		svc := llm.ServiceFunc(func(context.Context, llm.Request) (*llm.Response, error) {
			return nil, svcErr
		})
		_, err := New(svc).CheckRank(t.Context(), "acme.com", "", "x")
		var se *llm.ServiceError
		if !errors.As(err, &se) || err.Error() != "quota exceeded" {
			t.Errorf("expected untouched ServiceError, got %v", err)
		}
	})

	t.Run("empty answer", func(t *testing.T) {
		t.Parallel()

		svc, _ := answer("   ")
		_, err := New(svc).CheckRank(t.Context(), "acme.com", "", "x")
		if !errors.Is(err, extract.ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("prose answer", func(t *testing.T) {
		t.Parallel()

		svc, _ := answer("I could not determine the ranking.")
		_, err := New(svc).CheckRank(t.Context(), "acme.com", "", "x")
		var failed *extract.ExtractionFailedError
		if !errors.As(err, &failed) {
			t.Errorf("expected ExtractionFailedError, got %v", err)
		}
	})

	t.Run("wrong shape", func(t *testing.T) {
		t.Parallel()

		svc, _ := answer(`[{"keyword":"x","position":1}]`)
		_, err := New(svc).CheckRank(t.Context(), "acme.com", "", "x")
		if !errors.Is(err, extract.ErrSchemaMismatch) {
			t.Errorf("expected ErrSchemaMismatch, got %v", err)
		}
	})

	t.Run("competitor without domain", func(t *testing.T) {
		t.Parallel()

		svc, _ := answer(`{"position":1,"competitors":[{"position":2}]}`)
		_, err := New(svc).CheckRank(t.Context(), "acme.com", "", "x")
		if !errors.Is(err, extract.ErrSchemaMismatch) {
			t.Errorf("expected ErrSchemaMismatch, got %v", err)
		}
	})

	t.Run("empty keyword", func(t *testing.T) {
		t.Parallel()

		svc, _ := answer("{}")
		if _, err := New(svc).CheckRank(t.Context(), "acme.com", "", " "); !errors.Is(err, ErrEmptyKeyword) {
			t.Errorf("expected ErrEmptyKeyword, got %v", err)
		}
	})
}

func TestRank_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    *int
		wantErr bool
	}{
		{input: `4`, want: model.IntPtr(4)},
		{input: `4.0`, want: model.IntPtr(4)},
		{input: `"4"`, want: model.IntPtr(4)},
		{input: `" #12 "`, want: model.IntPtr(12)},
		{input: `null`, want: nil},
		{input: `0`, want: nil},
		{input: `-3`, want: nil},
		{input: `2.5`, want: nil},
		{input: `"not found"`, want: nil},
		{input: `false`, want: nil},
		{input: `{"rank":1}`, wantErr: true},
		{input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var r Rank
			err := json.Unmarshal([]byte(tt.input), &r)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, r.Int()); diff != "" {
				t.Errorf("Rank mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRank_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Payload{Keyword: "a", Position: RankOf(3), Competitors: []CompetitorPayload{{Domain: "b.com"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"keyword":"a","position":3,"url":"","competitors":[{"domain":"b.com","position":null,"url":""}]}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\nwant %s\ngot  %s", want, data)
	}
}
