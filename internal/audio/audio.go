// Package audio defines the audio-output switching boundary consumed at
// launch time. Device enumeration and default-endpoint switching live behind
// the Switcher interface; the policy-config COM implementation is an
// external collaborator supplied by the host build.
package audio

import "errors"

// ErrUnavailable is reported when no switching backend is wired in. Audio
// retargeting is never fatal to a launch; callers downgrade it to a status
// message.
var ErrUnavailable = errors.New("audio switching unavailable")

// Device is one active audio output endpoint.
type Device struct {
	// ID is the stable endpoint identifier persisted in profiles.
	ID string `json:"id"`
	// Name is the user-facing friendly name.
	Name string `json:"name"`
}

// Switcher enumerates output devices and retargets the system default.
type Switcher interface {
	Devices() ([]Device, error)
	SetDefault(id string) error
}

// Unavailable is the no-op Switcher used when no backend is present.
type Unavailable struct{}

func (Unavailable) Devices() ([]Device, error) { return nil, ErrUnavailable }

func (Unavailable) SetDefault(string) error { return ErrUnavailable }
