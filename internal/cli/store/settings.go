package store

import (
	"context"

	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/types"
)

// Display defaults for unset brand colors
const (
	DefaultPrimaryColor   = "#3b82f6"
	DefaultSecondaryColor = "#64748b"
)

// SettingsAPI is the slice of the backend the settings store calls
type SettingsAPI interface {
	GetSettings(ctx context.Context) (*types.AppSettings, error)
	UploadLogo(ctx context.Context, file client.Attachment) (*types.AppSettings, error)
	ChangeName(ctx context.Context, name string) (*types.AppSettings, error)
	ChangeColor(ctx context.Context, primary, secondary string) (*types.AppSettings, error)
}

type (
	settingsLoaded struct{ s types.AppSettings }
	logoChanged    struct{ path string }
	nameChanged    struct{ name string }
	colorsChanged  struct{ primary, secondary string }
)

func (settingsLoaded) actionName() string { return "settings_loaded" }
func (logoChanged) actionName() string    { return "logo_changed" }
func (nameChanged) actionName() string    { return "name_changed" }
func (colorsChanged) actionName() string  { return "colors_changed" }

func reduceSettings(s types.AppSettings, a action) types.AppSettings {
	switch a := a.(type) {
	case settingsLoaded:
		return a.s
	case logoChanged:
		s.LogoPath = a.path
	case nameChanged:
		s.Name = a.name
	case colorsChanged:
		s.PrimaryColor = a.primary
		s.SecondaryColor = a.secondary
	}
	return s
}

// SettingsStore holds the organisation branding. Each mutator changes only
// its own fields and only after the backend confirms.
type SettingsStore struct {
	api SettingsAPI
	m   *machine[types.AppSettings]
}

// NewSettingsStore creates an empty settings store
func NewSettingsStore(api SettingsAPI) *SettingsStore {
	return &SettingsStore{
		api: api,
		m: newMachine(types.AppSettings{}, reduceSettings, func(s types.AppSettings) types.AppSettings {
			return s
		}),
	}
}

// Settings returns the raw branding as last confirmed by the backend
func (s *SettingsStore) Settings() types.AppSettings {
	return s.m.snapshot()
}

// Display returns the branding with default colors filled in
func (s *SettingsStore) Display() types.AppSettings {
	st := s.m.snapshot()
	if st.PrimaryColor == "" {
		st.PrimaryColor = DefaultPrimaryColor
	}
	if st.SecondaryColor == "" {
		st.SecondaryColor = DefaultSecondaryColor
	}
	return st
}

// Subscribe registers fn for every change and returns its cancel func
func (s *SettingsStore) Subscribe(fn func(types.AppSettings)) func() {
	return s.m.subscribe(fn)
}

// Load fetches and replaces every field. A failed fetch changes nothing.
func (s *SettingsStore) Load(ctx context.Context) error {
	got, err := s.api.GetSettings(ctx)
	if err != nil {
		return err
	}
	return s.m.dispatch(settingsLoaded{s: *got}, nil)
}

// ChangeLogo uploads a new logo and records the path the backend stored it at
func (s *SettingsStore) ChangeLogo(ctx context.Context, file client.Attachment) error {
	got, err := s.api.UploadLogo(ctx, file)
	if err != nil {
		return err
	}
	if got.LogoPath == "" {
		return nil
	}
	return s.m.dispatch(logoChanged{path: got.LogoPath}, nil)
}

// ChangeName renames the organisation
func (s *SettingsStore) ChangeName(ctx context.Context, name string) error {
	got, err := s.api.ChangeName(ctx, name)
	if err != nil {
		return err
	}
	if got.Name != "" {
		name = got.Name
	}
	return s.m.dispatch(nameChanged{name: name}, nil)
}

// ChangeColor sets both brand colors
func (s *SettingsStore) ChangeColor(ctx context.Context, primary, secondary string) error {
	got, err := s.api.ChangeColor(ctx, primary, secondary)
	if err != nil {
		return err
	}
	if got.PrimaryColor != "" {
		primary = got.PrimaryColor
	}
	if got.SecondaryColor != "" {
		secondary = got.SecondaryColor
	}
	return s.m.dispatch(colorsChanged{primary: primary, secondary: secondary}, nil)
}
