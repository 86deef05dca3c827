package game

// Input is one tick of controller intent for one fighter. Move is the
// horizontal direction in {-1, 0, 1}; other values are clamped.
type Input struct {
	Move    int  `json:"move"`
	Jump    bool `json:"jump"`
	Attack  bool `json:"attack"`
	Special bool `json:"special"`
	Block   bool `json:"block"`
	Dash    bool `json:"dash"`
}

// Idle reports whether the input requests nothing.
func (in Input) Idle() bool {
	return in == Input{}
}
