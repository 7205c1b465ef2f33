package cache

// RunKeyOpts holds every search parameter that influences a run's result.
type RunKeyOpts struct {
	Variant          string  `json:"variant"`
	InitialPheromone float64 `json:"tau0"`
	Ants             int     `json:"ants"`
	MaxIterations    int     `json:"iterations"`
	StagnationLimit  int     `json:"stagnation"`
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`
	EvaporationRate  float64 `json:"rho"`
	Q                float64 `json:"q"`
	MinPheromone     float64 `json:"min"`
	MaxPheromone     float64 `json:"max"`
	ElitistWeight    float64 `json:"elitist"`
	RankWidth        int     `json:"rank"`
	Heuristic        string  `json:"heuristic"`
	Seed             int64   `json:"seed"`
}

// Keyer derives cache keys.
type Keyer interface {
	// RunKey identifies a solved run of the graph with the given content hash.
	RunKey(graphHash string, opts RunKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a graph or run.
	ArtifactKey(sourceHash, format string) string
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RunKey implements Keyer.
func (DefaultKeyer) RunKey(graphHash string, opts RunKeyOpts) string {
	return hashKey("run", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sourceHash, format string) string {
	return hashKey("artifact", sourceHash, format)
}

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis instance.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer selects DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RunKey implements Keyer.
func (k *ScopedKeyer) RunKey(graphHash string, opts RunKeyOpts) string {
	return k.prefix + k.inner.RunKey(graphHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(sourceHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, format)
}
