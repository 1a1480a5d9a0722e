package opa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/trinobridge/opabridge/internal/trino"
)

// respondByTable answers true for table names in the allowed set.
func respondByTable(allowed map[string]bool) func(*http.Request, []byte) (*http.Response, error) {
	return func(req *http.Request, body []byte) (*http.Response, error) {
		var q struct {
			Input struct {
				Action struct {
					Resource struct {
						Table *struct {
							TableName string `json:"tableName"`
						} `json:"table"`
					} `json:"resource"`
				} `json:"action"`
			} `json:"input"`
		}
		if err := json.Unmarshal(body, &q); err != nil {
			return respondJSON(http.StatusBadRequest, `{}`)(req, body)
		}
		verdict := q.Input.Action.Resource.Table != nil && allowed[q.Input.Action.Resource.Table.TableName]
		if verdict {
			return respondJSON(http.StatusOK, `{"result":true}`)(req, body)
		}
		return respondJSON(http.StatusOK, `{"result":false}`)(req, body)
	}
}

func TestFilterEmptyInputNoTraffic(t *testing.T) {
	t.Parallel()
	a := newSingle(t, failingDoer{t: t})
	got, err := a.FilterCatalogs(context.Background(), testSecurityContext(), nil)
	if err != nil {
		t.Fatalf("FilterCatalogs: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got = %#v, want empty non-nil slice", got)
	}
}

func TestFilterTablesKeepsInputOrder(t *testing.T) {
	t.Parallel()
	doer := &scriptedDoer{respond: respondByTable(map[string]bool{"orders": true, "lineitem": true})}
	a := newSingle(t, doer)

	in := []trino.SchemaTableName{
		{SchemaName: "sales", TableName: "orders"},
		{SchemaName: "sales", TableName: "secrets"},
		{SchemaName: "sales", TableName: "lineitem"},
	}
	got, err := a.FilterTables(context.Background(), testSecurityContext(), "mycat", in)
	if err != nil {
		t.Fatalf("FilterTables: %v", err)
	}
	want := []trino.SchemaTableName{in[0], in[2]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got = %v, want %v", got, want)
	}
	if n := len(doer.recorded()); n != 3 {
		t.Fatalf("requests = %d, want one per candidate", n)
	}
}

func TestFilterAllOrNothing(t *testing.T) {
	t.Parallel()

	t.Run("permit all", func(t *testing.T) {
		t.Parallel()
		doer := &scriptedDoer{respond: respondJSON(http.StatusOK, `{"result":true}`)}
		a := newSingle(t, doer)
		got, err := a.FilterSchemas(context.Background(), testSecurityContext(), "mycat", []string{"a", "b"})
		if err != nil {
			t.Fatalf("FilterSchemas: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Fatalf("got = %v", got)
		}
	})

	t.Run("deny all", func(t *testing.T) {
		t.Parallel()
		doer := &scriptedDoer{respond: respondJSON(http.StatusOK, `{"result":false}`)}
		a := newSingle(t, doer)
		got, err := a.FilterSchemas(context.Background(), testSecurityContext(), "mycat", []string{"a", "b"})
		if err != nil {
			t.Fatalf("FilterSchemas: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("got = %v, want empty", got)
		}
	})
}

func TestFilterFailureAborts(t *testing.T) {
	t.Parallel()
	doer := &scriptedDoer{respond: respondJSON(http.StatusServiceUnavailable, `down`)}
	a := newSingle(t, doer)
	_, err := a.FilterCatalogs(context.Background(), testSecurityContext(), []string{"a", "b", "c"})
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want ServerError", err)
	}
}

func TestFilterColumnsOneRequestPerColumn(t *testing.T) {
	t.Parallel()
	doer := &scriptedDoer{respond: respondJSON(http.StatusOK, `{"result":true}`)}
	a := newSingle(t, doer)

	got, err := a.FilterColumns(context.Background(), testSecurityContext(), orders(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("FilterColumns: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("got = %v", got)
	}
	reqs := doer.recorded()
	if len(reqs) != 3 {
		t.Fatalf("requests = %d, want 3", len(reqs))
	}
	// Each request carries exactly one candidate column.
	for _, r := range reqs {
		var q struct {
			Input struct {
				Action struct {
					Resource struct {
						Table struct {
							Columns []string `json:"columns"`
						} `json:"table"`
					} `json:"resource"`
				} `json:"action"`
			} `json:"input"`
		}
		if err := json.Unmarshal([]byte(r.Body), &q); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		if len(q.Input.Action.Resource.Table.Columns) != 1 {
			t.Fatalf("columns = %v, want a single column", q.Input.Action.Resource.Table.Columns)
		}
	}
}

func TestFilterBoundsConcurrency(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	inFlight, peak := 0, 0
	doer := &scriptedDoer{respond: func(req *http.Request, body []byte) (*http.Response, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return respondJSON(http.StatusOK, `{"result":true}`)(req, body)
	}}
	a := newSingle(t, doer)

	catalogs := make([]string, 40)
	for i := range catalogs {
		catalogs[i] = "c"
	}
	got, err := a.FilterCatalogs(context.Background(), testSecurityContext(), catalogs)
	if err != nil {
		t.Fatalf("FilterCatalogs: %v", err)
	}
	if len(got) != len(catalogs) {
		t.Fatalf("got %d, want %d", len(got), len(catalogs))
	}
	if peak > defaultMaxFanOut {
		t.Fatalf("peak concurrency = %d, want <= %d", peak, defaultMaxFanOut)
	}
}

func TestFilterViewQueryOwnedBy(t *testing.T) {
	t.Parallel()
	doer := &scriptedDoer{respond: func(req *http.Request, body []byte) (*http.Response, error) {
		var q struct {
			Input struct {
				Action struct {
					Resource struct {
						User struct {
							User string `json:"user"`
						} `json:"user"`
					} `json:"resource"`
				} `json:"action"`
			} `json:"input"`
		}
		if err := json.Unmarshal(body, &q); err != nil {
			return respondJSON(http.StatusBadRequest, `{}`)(req, body)
		}
		if q.Input.Action.Resource.User.User == "carol" {
			return respondJSON(http.StatusOK, `{"result":true}`)(req, body)
		}
		return respondJSON(http.StatusOK, `{"result":false}`)(req, body)
	}}
	a := newSingle(t, doer)

	owners := []trino.Identity{{User: "bob"}, {User: "carol"}}
	got, err := a.FilterViewQueryOwnedBy(context.Background(), testIdentity(), owners)
	if err != nil {
		t.Fatalf("FilterViewQueryOwnedBy: %v", err)
	}
	if len(got) != 1 || got[0].User != "carol" {
		t.Fatalf("got = %v, want [carol]", got)
	}
}
