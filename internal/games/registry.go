// Package games is the closed catalog of game types a session payload can
// refer to. Payloads are resolved by looking up their game code; nothing is
// discovered at runtime.
package games

import (
	"encoding/json"
	"slices"
)

// Descriptor describes one game type.
type Descriptor struct {
	Code  string
	title string
	// disabled games keep their sessions readable but can no longer be started
	disabled bool
}

// Title is the human readable game name.
func (d Descriptor) Title() string {
	return d.title
}

// CanRun reports whether new sessions of this game can be created.
func (d Descriptor) CanRun() bool {
	return !d.disabled
}

// Builtin lists every game the bot knows about.
var Builtin = []Descriptor{
	{Code: "xo", title: "Tic-Tac-Toe"},
	{Code: "xo4", title: "Tic-Tac-Four"},
	{Code: "exo", title: "Elephant XO"},
	{Code: "c4", title: "Connect Four"},
	{Code: "rps", title: "Rock-Paper-Scissors"},
	{Code: "rpsls", title: "Rock-Paper-Scissors-Lizard-Spock"},
	{Code: "rr", title: "Russian Roulette"},
	{Code: "ck", title: "Checkers"},
	{Code: "pck", title: "Pool Checkers"},
}

// Registry maps game codes to descriptors.
type Registry struct {
	byCode map[string]Descriptor
}

// NewRegistry builds a registry from descriptors; codes listed in disabled
// resolve but report CanRun() == false.
func NewRegistry(descriptors []Descriptor, disabled []string) *Registry {
	r := &Registry{byCode: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if slices.Contains(disabled, d.Code) {
			d.disabled = true
		}
		r.byCode[d.Code] = d
	}
	return r
}

// Lookup finds a descriptor by game code.
func (r *Registry) Lookup(code string) (Descriptor, bool) {
	d, ok := r.byCode[code]
	return d, ok
}

// Envelope is the serialized shape of a session payload.
type Envelope struct {
	GameCode string          `json:"game_code"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Resolve decodes a payload and looks up its game code. Undecodable
// payloads and unknown codes both report false.
func (r *Registry) Resolve(payload []byte) (Descriptor, bool) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil || env.GameCode == "" {
		return Descriptor{}, false
	}
	return r.Lookup(env.GameCode)
}

