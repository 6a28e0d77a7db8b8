package forge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v84/github"

	"github.com/quattor/release-helper/pkg/model"
)

// testForge builds a GitHubForge against a local test server.
func testForge(t *testing.T, handler http.Handler) (*GitHubForge, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	client.BaseURL = base

	return &GitHubForge{client: client}, srv
}

func TestListIssues_FollowsPagination(t *testing.T) {
	var srv *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/quattor/aquilon/issues", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("milestone"); got != "*" {
			t.Errorf("milestone query = %q, want *", got)
		}
		if got := r.URL.Query().Get("state"); got != "all" {
			t.Errorf("state query = %q, want all", got)
		}

		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link",
				fmt.Sprintf(`<%s/repos/quattor/aquilon/issues?page=2>; rel="next"`, srv.URL))
			fmt.Fprint(w, `[{"number": 1, "title": "first", "state": "open"}]`)
		case "2":
			fmt.Fprint(w, `[{"number": 2, "title": "second", "state": "closed"}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	f, server := testForge(t, mux)
	srv = server

	repo := model.RepoRef{Owner: "quattor", Name: "aquilon"}
	issues, err := f.ListIssues(context.Background(), repo, IssueFilter{
		State:     "all",
		Milestone: "*",
	})
	if err != nil {
		t.Fatalf("ListIssues: %v", err)
	}

	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2 (both pages)", len(issues))
	}
	if issues[0].Number != 1 || issues[1].Number != 2 {
		t.Errorf("issue numbers %d, %d, want 1, 2", issues[0].Number, issues[1].Number)
	}
}

func TestListMilestones_FollowsPagination(t *testing.T) {
	var srv *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/quattor/aquilon/milestones", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link",
				fmt.Sprintf(`<%s/repos/quattor/aquilon/milestones?page=2>; rel="next"`, srv.URL))
			fmt.Fprint(w, `[{"number": 3, "title": "16.4", "state": "open"}]`)
		case "2":
			fmt.Fprint(w, `[{"number": 4, "title": "16.6", "state": "open"}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	f, server := testForge(t, mux)
	srv = server

	repo := model.RepoRef{Owner: "quattor", Name: "aquilon"}
	milestones, err := f.ListMilestones(context.Background(), repo, StateOpen)
	if err != nil {
		t.Fatalf("ListMilestones: %v", err)
	}

	if len(milestones) != 2 {
		t.Fatalf("got %d milestones, want 2 (both pages)", len(milestones))
	}
	if milestones[0].Title != "16.4" || milestones[1].Title != "16.6" {
		t.Errorf("titles %s, %s, want 16.4, 16.6", milestones[0].Title, milestones[1].Title)
	}
	if milestones[1].Handle.Number != 4 {
		t.Errorf("handle number %d, want 4", milestones[1].Handle.Number)
	}
}
