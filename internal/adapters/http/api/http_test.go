package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/kibitz/internal/adapters/engine"
	"github.com/okian/kibitz/internal/adapters/http/api"
	service "github.com/okian/kibitz/internal/app"
	"github.com/okian/kibitz/internal/domain/board"
	"github.com/okian/kibitz/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const validRecord = `[Dealer "N"]
[Vulnerable "EW"]
[Deal "N:AKQJ.T98.765.432 E:T98.765.432.AKQJ S:765.432.AKQJ.T98 W:432.AKQJ.T98.765"]
[Auction "N"]
1NT Pass Pass Pass
`

// brokenEngine simulates an unreachable engine.
type brokenEngine struct{}

func (brokenEngine) Analyze(_ context.Context, _ board.Board) (engine.Result, error) {
	return engine.Result{}, errors.New("engine unavailable: connection refused")
}

// workingEngine returns a minimal successful result.
type workingEngine struct{}

func (workingEngine) Analyze(_ context.Context, _ board.Board) (engine.Result, error) {
	return engine.Result{Success: true}, nil
}

func newTestServer(opts ...service.Option) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(service.New(opts...)).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return out
}

func TestInfoAndHealth(t *testing.T) {
	convey.Convey("Given a server without collaborators", t, func() {
		srv := newTestServer()
		defer srv.Close()

		convey.Convey("When the root is requested", func() {
			resp, err := http.Get(srv.URL + "/")
			convey.So(err, convey.ShouldBeNil)
			body := decodeBody(t, resp)

			convey.Convey("Then the service description should come back", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["service"], convey.ShouldEqual, "Bridge Analysis Relay API")
				convey.So(body["status"], convey.ShouldEqual, "running")
				cfg, ok := body["configuration"].(map[string]any)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(cfg["ben_configured"], convey.ShouldEqual, false)
				convey.So(cfg["gemini_configured"], convey.ShouldEqual, false)
			})

			convey.Convey("Then a request id should be stamped", func() {
				convey.So(resp.Header.Get("X-Request-ID"), convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When an unknown path is requested", func() {
			resp, err := http.Get(srv.URL + "/nope")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it should be a 404", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When health is requested", func() {
			resp, err := http.Get(srv.URL + "/health")
			convey.So(err, convey.ShouldBeNil)
			body := decodeBody(t, resp)

			convey.Convey("Then collaborator flags should be reported", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["status"], convey.ShouldEqual, "ok")
				convey.So(body["ben_url"], convey.ShouldEqual, false)
				convey.So(body["gemini_key"], convey.ShouldEqual, false)
			})
		})

		convey.Convey("When metrics are requested", func() {
			resp, err := http.Get(srv.URL + "/metrics")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the Prometheus exposition should come back", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestParseEndpoint(t *testing.T) {
	convey.Convey("Given a server without collaborators", t, func() {
		srv := newTestServer()
		defer srv.Close()
		url := srv.URL + "/api/parse/pbn"

		convey.Convey("When a valid record is posted as JSON", func() {
			resp, body := postJSON(t, url, map[string]string{"pbn": validRecord})

			convey.Convey("Then the parsed board should come back", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["success"], convey.ShouldEqual, true)
				b, ok := body["board"].(map[string]any)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(b["dealer"], convey.ShouldEqual, "N")
			})
		})

		convey.Convey("When a valid record is posted as raw text", func() {
			resp, err := http.Post(url, "text/plain", strings.NewReader(validRecord))
			convey.So(err, convey.ShouldBeNil)
			body := decodeBody(t, resp)

			convey.Convey("Then it should parse the same way", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["success"], convey.ShouldEqual, true)
			})
		})

		convey.Convey("When a record without a deal is posted", func() {
			resp, body := postJSON(t, url, map[string]string{"pbn": `[Event "no deal"]`})

			convey.Convey("Then it should be rejected with the fixed message", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
				convey.So(body["success"], convey.ShouldEqual, false)
				convey.So(body["error"], convey.ShouldEqual, "Could not parse hands")
			})
		})

		convey.Convey("When the endpoint is hit with GET", func() {
			resp, err := http.Get(url)
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it should be a 404", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestAnalyzeEndpoints(t *testing.T) {
	convey.Convey("Given a server without collaborators", t, func() {
		srv := newTestServer()
		defer srv.Close()

		convey.Convey("When quick analysis is requested", func() {
			resp, body := postJSON(t, srv.URL+"/api/analyze/quick", map[string]string{"pbn": validRecord})

			convey.Convey("Then the result should degrade instead of failing", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["success"], convey.ShouldEqual, true)
				convey.So(body["ben_available"], convey.ShouldEqual, false)
				convey.So(body["error"], convey.ShouldNotBeEmpty)
			})

			convey.Convey("Then key_moments should be an empty list, not null", func() {
				moments, ok := body["key_moments"].([]any)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(moments, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When manual analysis is requested", func() {
			resp, body := postJSON(t, srv.URL+"/api/analyze/manual", board.Board{})

			convey.Convey("Then it should fail with a 500", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusInternalServerError)
				convey.So(body["error"], convey.ShouldContainSubstring, "not configured")
			})
		})

		convey.Convey("When engine-only analysis is requested", func() {
			resp, _ := postJSON(t, srv.URL+"/api/analyze/ben", board.Board{})

			convey.Convey("Then it should fail with a 500", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusInternalServerError)
			})
		})

		convey.Convey("When the comparison is requested", func() {
			resp, body := postJSON(t, srv.URL+"/api/analyze/compare", board.Board{})

			convey.Convey("Then per-leg statuses should come back", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["success"], convey.ShouldEqual, true)
				comparisons, ok := body["comparisons"].(map[string]any)
				convey.So(ok, convey.ShouldBeTrue)
				benOnly, ok := comparisons["ben_only"].(map[string]any)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(benOnly["status"], convey.ShouldEqual, "not_configured")
				combined, ok := comparisons["gemini_with_ben"].(map[string]any)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(combined["status"], convey.ShouldEqual, "not_available")
			})
		})
	})

	convey.Convey("Given a server whose engine fails at transport level", t, func() {
		srv := newTestServer(service.WithEngine(brokenEngine{}))
		defer srv.Close()

		convey.Convey("When engine-only analysis is requested", func() {
			resp, body := postJSON(t, srv.URL+"/api/analyze/ben", board.Board{})

			convey.Convey("Then the failure should be a structured payload", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["success"], convey.ShouldEqual, false)
				convey.So(body["error"], convey.ShouldContainSubstring, "connection refused")
			})
		})
	})

	convey.Convey("Given a server with a working engine", t, func() {
		srv := newTestServer(service.WithEngine(workingEngine{}))
		defer srv.Close()

		convey.Convey("When engine-only analysis is requested", func() {
			resp, body := postJSON(t, srv.URL+"/api/analyze/ben", board.Board{})

			convey.Convey("Then the raw and formatted views should come back", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["success"], convey.ShouldEqual, true)
				convey.So(body["source"], convey.ShouldEqual, "ben")
				convey.So(body["formatted"], convey.ShouldContainSubstring, "ENGINE ANALYSIS")
			})
		})

		convey.Convey("When manual analysis is requested", func() {
			var b board.Board
			b.Hands[board.North] = "AKQJ.T98.765.432"
			resp, body := postJSON(t, srv.URL+"/api/analyze/manual", b)

			convey.Convey("Then the analysis should succeed", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["success"], convey.ShouldEqual, true)
				convey.So(body["ben_available"], convey.ShouldEqual, true)
			})
		})
	})
}
