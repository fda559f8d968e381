package executorfake

import (
	"context"
	"sync"

	"github.com/lblod/acmidm-login-service/sparql"
)

var _ sparql.Executor = (*FakeExecutor)(nil)

// FakeExecutor records every query and update and replays scripted results,
// first-in first-out. An exhausted script yields empty result sets and
// successful updates.
type FakeExecutor struct {
	Queries []string
	Updates []string

	selectResults []*sparql.Results
	selectErr     error
	updateErr     error
	lock          sync.Mutex
}

func New() *FakeExecutor {
	return &FakeExecutor{}
}

// QueueResults schedules the result set for the next Select call.
func (f *FakeExecutor) QueueResults(results *sparql.Results) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.selectResults = append(f.selectResults, results)
}

// FailSelects makes every Select call return err.
func (f *FakeExecutor) FailSelects(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.selectErr = err
}

// FailUpdates makes every Update call return err.
func (f *FakeExecutor) FailUpdates(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.updateErr = err
}

func (f *FakeExecutor) Select(_ context.Context, query string) (*sparql.Results, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.Queries = append(f.Queries, query)
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	if len(f.selectResults) == 0 {
		return &sparql.Results{}, nil
	}
	next := f.selectResults[0]
	f.selectResults = f.selectResults[1:]
	return next, nil
}

func (f *FakeExecutor) Update(_ context.Context, update string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.Updates = append(f.Updates, update)
	return f.updateErr
}

// Bindings builds a result set from rows of variable name to value.
func Bindings(rows ...map[string]string) *sparql.Results {
	results := &sparql.Results{}
	for _, row := range rows {
		binding := sparql.Binding{}
		for name, value := range row {
			binding[name] = sparql.BoundValue{Type: "uri", Value: value}
		}
		results.Results.Bindings = append(results.Results.Bindings, binding)
	}
	return results
}
