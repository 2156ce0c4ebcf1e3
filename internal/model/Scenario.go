package model

// Scenario defines a single, self-contained generation job (e.g. a browsing
// session, a flood). This is the interface for the "execution layer".
type Scenario interface {
	Name() string
	Generate() (*PacketBatch, *RunSummary, error)
}
