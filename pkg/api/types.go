package api

import (
	"github.com/ssargent/pokecsv/pkg/codec"
	"github.com/ssargent/pokecsv/pkg/service"
	"github.com/ssargent/pokecsv/pkg/store"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// MessageResponse is the data of responses that only carry a message
type MessageResponse struct {
	Message string `json:"message"`
	Outcome string `json:"outcome,omitempty"`
}

// ValidationResponse is the data of a 400 caused by field validation
type ValidationResponse struct {
	Fields []codec.FieldError `json:"fields"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string // Required by the secure and configuration routes when set

	JWTSecret       string // Empty disables bearer tokens
	Issuer          string
	Audience        string
	TokenTTLMinutes int
}

// PokemonCatalog defines the record operations served over HTTP
type PokemonCatalog interface {
	Get(name string) (*codec.Pokemon, error)
	ListPaginated(pageNumber, pageSize int) (*service.Page, error)
	Add(p *codec.Pokemon) (store.Outcome, error)
	Modify(originalName string, p *codec.Pokemon) (store.Outcome, error)
	Delete(name string) (store.Outcome, error)
	ConfigureStorePath(path string) (store.Outcome, error)
	StorePath() string
}
