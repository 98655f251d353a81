package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chessrules/internal/core"
)

func TestDoRequest(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/games/g1/moves":
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"move rejected","code":"PROMOTION_REQUIRED","details":"move WP7 g7h8: promotion piece required"}`)
		case "/api/v1/games/g1/legal":
			if r.URL.Query().Get("square") != "e2" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			io.WriteString(w, `{"square":"e2","piece":"WP5","destinations":["e3","e4"]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	var out bytes.Buffer
	c := New(srv.URL+"/", &out)

	_, err := c.MakeMove("g1", "g7h8")
	if got := ErrorCode(err); got != core.ErrPromotionRequired {
		t.Fatalf("ErrorCode = %q; want %q (err %v)", got, core.ErrPromotionRequired, err)
	}
	if !strings.Contains(err.Error(), "promotion piece required") {
		t.Errorf("error text = %q", err.Error())
	}
	if gotContentType != "application/json" || gotBody != `{"move":"g7h8"}` {
		t.Errorf("request = %q %q", gotContentType, gotBody)
	}

	legal, err := c.LegalMoves("g1", "e2")
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}
	if legal.Piece != "WP5" || len(legal.Destinations) != 2 {
		t.Errorf("LegalMoves = %+v", legal)
	}

	_, err = c.GetGame("missing")
	if ErrorCode(err) != "" || !strings.Contains(err.Error(), "status 404") {
		t.Errorf("404 without body: err = %v", err)
	}

	if !strings.Contains(out.String(), "[API] POST /api/v1/games/g1/moves") {
		t.Errorf("request log missing:\n%s", out.String())
	}
}
