package rewriter

import "github.com/alorle/tvtube-proxy/internal/enrichment"

// MockPipeline is a mock implementation of the Interface for testing
type MockPipeline struct {
	ApplyFunc func(root any) Result
}

// Apply implements Interface.Apply. Without ApplyFunc the payload is
// returned untouched with an already sealed batch.
func (m *MockPipeline) Apply(root any) Result {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(root)
	}
	b := enrichment.NewBatch(nil, nil)
	b.Seal()
	return Result{Payload: root, Enrichment: b}
}
