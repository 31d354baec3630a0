package recs

// noCopy makes "go vet" complain when a value embedding it is copied.
// Events and EntitySet hold internal indices that must not be shared.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
