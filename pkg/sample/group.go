package sample

// Group is one batch of candidate responses competing in a single
// tournament round: G independently sampled completions of the same
// query, scored relative to one another rather than against a fixed
// reference answer.
type Group struct {
	// Query is the prompt all predictions responded to.
	Query string `json:"query"`
	// Predictions holds one candidate response per group member, each
	// itself a full multi-turn transcript.
	Predictions [][]Message `json:"predictions"`
}

// NewGroup creates a Group from a query and a flat slice of single-turn
// candidate texts, the common case for reward-model training batches.
func NewGroup(query string, candidates []string) *Group {
	preds := make([][]Message, len(candidates))
	for i, c := range candidates {
		preds[i] = []Message{NewAssistantMessage(c)}
	}
	return &Group{Query: query, Predictions: preds}
}

// Size returns G, the number of candidates in the group.
func (g *Group) Size() int {
	return len(g.Predictions)
}
