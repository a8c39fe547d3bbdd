package autodrive

// Config holds planner limits and weights.
type Config struct {
	// MaxNodes caps the nodes one search may expand.
	MaxNodes        int     `json:"maxNodes" mapstructure:"maxNodes"`
	MoveCost        float64 `json:"moveCost" mapstructure:"moveCost"`
	SteerCost       float64 `json:"steerCost" mapstructure:"steerCost"`
	ObstaclePenalty float64 `json:"obstaclePenalty" mapstructure:"obstaclePenalty"`
	ForwardWeight   float64 `json:"forwardWeight" mapstructure:"forwardWeight"`
	LateralWeight   float64 `json:"lateralWeight" mapstructure:"lateralWeight"`
	AlignmentWeight float64 `json:"alignmentWeight" mapstructure:"alignmentWeight"`
}

// DefaultConfig returns the planner settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxNodes:        20000,
		MoveCost:        1,
		SteerCost:       1,
		ObstaclePenalty: 2,
		ForwardWeight:   1,
		LateralWeight:   1,
		AlignmentWeight: 1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxNodes <= 0 {
		c.MaxNodes = d.MaxNodes
	}
	if c.MoveCost <= 0 {
		c.MoveCost = d.MoveCost
	}
	return c
}
