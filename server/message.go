package server

import "github.com/bytedance/sonic"

// Wire command names. The GUI speaks these verbatim.
const (
	cmdNewGame     = "new_game"
	cmdMove        = "move"
	cmdEdit        = "edit"
	cmdRequestGrid = "request_grid"
	cmdUpdateGrid  = "updateGrid"
	cmdEndgame     = "endgame"
)

// Edit actions.
const (
	actionBlock       = "block"
	actionUnblock     = "unblock"
	actionPlaceEvader = "place_cat"
)

// Request is every client command folded into one envelope, discriminated by
// Command; fields a given command does not use stay zero. The json tags are
// the wire contract.
type Request struct {
	Command string `json:"command"`

	// new_game
	Size int `json:"size,omitempty"`

	// move
	ClickedTile []int   `json:"clicked_tile,omitempty"`
	Deadline    float64 `json:"deadline,omitempty"`
	Strategy    string  `json:"strategy,omitempty"`
	Depth       int     `json:"depth,omitempty"`
	AlphaBeta   bool    `json:"alpha_beta_pruning,omitempty"`

	// edit
	Action string `json:"action,omitempty"`
	Tile   []int  `json:"tile,omitempty"`

	// move, edit and request_grid carry the client's grid so a fresh
	// connection can resume a game the server has never seen.
	Grid [][]int `json:"grid,omitempty"`
}

// GridUpdate carries the whole grid back to the client. Data is a STRING
// holding the row-major grid re-encoded as JSON; the GUI decodes it in a
// second pass.
type GridUpdate struct {
	Command string `json:"command"`
	Data    string `json:"data"`
}

// Endgame reports a decided game. Reason is the integer status code.
type Endgame struct {
	Command string `json:"command"`
	Reason  int    `json:"reason"`
}

func newGridUpdate(rows [][]int) (GridUpdate, error) {
	data, err := sonic.MarshalString(rows)
	if err != nil {
		return GridUpdate{}, err
	}
	return GridUpdate{Command: cmdUpdateGrid, Data: data}, nil
}
