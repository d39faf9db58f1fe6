package diag

import (
	"sync"
	"testing"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Report(Warning{Code: model.CodeDanglingReference, Subject: "a.md"})
		}()
	}
	wg.Wait()
	c.Report(Warning{Code: model.CodeMalformedRecurrenceRule, Subject: "b.md"})

	assert.Len(t, c.Warnings(), 11)
	assert.Len(t, c.ByCode(model.CodeDanglingReference), 10)
	assert.Len(t, c.ByCode(model.CodeMalformedRecurrenceRule), 1)

	c.Reset()
	assert.Empty(t, c.Warnings())
}

func TestTee(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	s := Tee(a, nil, b)

	s.Report(FromError("x.md", model.ErrDanglingReference))

	assert.Len(t, a.Warnings(), 1)
	assert.Len(t, b.Warnings(), 1)
	assert.Equal(t, "[DANGLING_REFERENCE] x.md: Dependency target does not exist", a.Warnings()[0].String())
}

func TestOrDiscard(t *testing.T) {
	assert.NotPanics(t, func() { OrDiscard(nil).Report(Warning{}) })
}
