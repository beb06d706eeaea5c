package loader

import (
	"fmt"
	"net/mail"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/lvyanru/coractl/internal/cli/types"
)

// Payload kinds
const (
	KindUsers        = "Users"
	KindManualEntry  = "ManualEntry"
	KindDocumentInfo = "DocumentInfo"
)

// PayloadFile is a request payload loaded from a YAML file
type PayloadFile struct {
	// Kind is one of Users, ManualEntry or DocumentInfo
	Kind string      `json:"kind"`
	Spec PayloadSpec `json:"spec"`
}

// PayloadSpec holds the fields of every kind; only those of Kind are read
type PayloadSpec struct {
	// Users
	Users []types.SignupRequest `json:"users,omitempty"`

	// ManualEntry
	TitleID  types.ID `json:"titleId,omitempty"`
	Title    string   `json:"title,omitempty"`
	Content  string   `json:"content,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	// DocumentInfo
	Types []types.DocumentInfoRequest `json:"types,omitempty"`
}

// LoadFromFile reads and parses a payload file
func LoadFromFile(path string) (*PayloadFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse parses a payload document
func Parse(data []byte) (*PayloadFile, error) {
	var payload PayloadFile
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	switch payload.Kind {
	case "":
		return nil, fmt.Errorf("'kind' field is required")
	case KindUsers, KindManualEntry, KindDocumentInfo:
	default:
		return nil, fmt.Errorf("invalid kind '%s', must be one of %s, %s, %s",
			payload.Kind, KindUsers, KindManualEntry, KindDocumentInfo)
	}

	return &payload, nil
}

func (p *PayloadFile) expect(kind string) error {
	if p.Kind != kind {
		return fmt.Errorf("payload kind is '%s', expected '%s'", p.Kind, kind)
	}
	return nil
}

// ToSignupRequests returns the accounts of a Users payload
func (p *PayloadFile) ToSignupRequests() ([]types.SignupRequest, error) {
	if err := p.expect(KindUsers); err != nil {
		return nil, err
	}
	if len(p.Spec.Users) == 0 {
		return nil, fmt.Errorf("spec.users is required and must not be empty")
	}

	out := make([]types.SignupRequest, 0, len(p.Spec.Users))
	for i, u := range p.Spec.Users {
		if u.Name == "" {
			return nil, fmt.Errorf("spec.users[%d].name is required", i)
		}
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return nil, fmt.Errorf("spec.users[%d].email is invalid: %q", i, u.Email)
		}
		if u.Password == "" {
			return nil, fmt.Errorf("spec.users[%d].password is required", i)
		}
		if u.Role != "" && types.ParseRole(u.Role) == types.RoleUnknown {
			return nil, fmt.Errorf("spec.users[%d].role '%s' is not a known role", i, u.Role)
		}
		out = append(out, u)
	}
	return out, nil
}

// ToManualEntry returns the document of a ManualEntry payload
func (p *PayloadFile) ToManualEntry() (*types.ManualEntry, error) {
	if err := p.expect(KindManualEntry); err != nil {
		return nil, err
	}
	if p.Spec.TitleID.IsZero() {
		return nil, fmt.Errorf("spec.titleId is required")
	}
	if strings.TrimSpace(p.Spec.Content) == "" {
		return nil, fmt.Errorf("spec.content is required")
	}

	return &types.ManualEntry{
		TitleID:  p.Spec.TitleID,
		Title:    p.Spec.Title,
		Content:  p.Spec.Content,
		Keywords: p.Spec.Keywords,
	}, nil
}

// ToDocumentInfoRequests returns the document types of a DocumentInfo payload
func (p *PayloadFile) ToDocumentInfoRequests() ([]types.DocumentInfoRequest, error) {
	if err := p.expect(KindDocumentInfo); err != nil {
		return nil, err
	}
	if len(p.Spec.Types) == 0 {
		return nil, fmt.Errorf("spec.types is required and must not be empty")
	}
	for i, t := range p.Spec.Types {
		if t.Title == "" {
			return nil, fmt.Errorf("spec.types[%d].title is required", i)
		}
	}
	return p.Spec.Types, nil
}
