package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry(Builtin, []string{"rr"})

	tests := []struct {
		name      string
		payload   string
		wantOK    bool
		wantCode  string
		wantRun   bool
		wantTitle string
	}{
		{name: "known game", payload: `{"game_code":"xo","data":{"board":[]}}`, wantOK: true, wantCode: "xo", wantRun: true, wantTitle: "Tic-Tac-Toe"},
		{name: "disabled game", payload: `{"game_code":"rr"}`, wantOK: true, wantCode: "rr", wantRun: false, wantTitle: "Russian Roulette"},
		{name: "unknown code", payload: `{"game_code":"chess"}`},
		{name: "missing code", payload: `{"data":{}}`},
		{name: "not json", payload: `xo`},
		{name: "empty", payload: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := reg.Resolve([]byte(tt.payload))
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantCode, d.Code)
			assert.Equal(t, tt.wantRun, d.CanRun())
			assert.Equal(t, tt.wantTitle, d.Title())
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry([]Descriptor{{Code: "b", title: "B"}, {Code: "a", title: "A"}}, []string{"b"})

	d, ok := reg.Lookup("a")
	assert.True(t, ok)
	assert.True(t, d.CanRun())

	d, ok = reg.Lookup("b")
	assert.True(t, ok)
	assert.False(t, d.CanRun())

	_, ok = reg.Lookup("zz")
	assert.False(t, ok)
}
