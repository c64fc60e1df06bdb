package arwiki

import (
	"fmt"
	"net"
	"slices"
	"strings"
)

// Content transaction tag names.
const (
	TagPageSlug     = "Arwiki-Page-Slug"
	TagPageTitle    = "Arwiki-Page-Title"
	TagPageCategory = "Arwiki-Page-Category"
	TagPageLang     = "Arwiki-Page-Lang"
	TagPageValue    = "Arwiki-Page-Value"
	TagPageImg      = "Arwiki-Page-Img"
	TagPageID       = "Arwiki-Page-Id"
	TagType         = "Arwiki-Type"
	TagVersion      = "Arwiki-Version"
)

// Version is the arwiki protocol version written on every mutation.
const Version = "2"

// Contracts names the auxiliary contracts that sit next to the token contract.
type Contracts struct {
	Languages  string `yaml:"languages" json:"languages"`
	Admins     string `yaml:"admins" json:"admins"`
	Categories string `yaml:"categories" json:"categories"`
}

// NetworkConfig selects a ledger gateway and the contracts deployed on it.
// It is chosen once per session and never mutated afterwards.
type NetworkConfig struct {
	Name            string    `yaml:"name" json:"name"`
	Host            string    `yaml:"host" json:"host"`
	Port            int       `yaml:"port" json:"port"`
	Protocol        string    `yaml:"protocol" json:"protocol"`
	UseGateway      bool      `yaml:"use_gateway" json:"use_gateway"`
	ContractAddress string    `yaml:"contract_address" json:"contract_address"`
	Contracts       Contracts `yaml:"contracts" json:"contracts"`

	// EvaluatorURL is the contract evaluation service used when UseGateway is false.
	EvaluatorURL string `yaml:"evaluator_url,omitempty" json:"evaluator_url,omitempty"`

	// DevDatabase is the SQLite ledger used for loopback hosts.
	DevDatabase string `yaml:"dev_database,omitempty" json:"dev_database,omitempty"`
}

// BaseURL returns protocol://host:port.
func (n NetworkConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s", n.Protocol, net.JoinHostPort(n.Host, fmt.Sprintf("%d", n.Port)))
}

// IsLoopback reports whether the host points at the local machine.
func (n NetworkConfig) IsLoopback() bool {
	switch strings.ToLower(n.Host) {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// WritingSystem is the text direction of a language.
type WritingSystem string

const (
	LTR WritingSystem = "LTR"
	RTL WritingSystem = "RTL"
)

// LanguageEntry is one value of the languages contract mapping.
type LanguageEntry struct {
	Code          string        `yaml:"code" json:"code"`
	Active        bool          `yaml:"active" json:"active"`
	WritingSystem WritingSystem `yaml:"writing_system" json:"writing_system"`
	ISOName       string        `yaml:"iso_name,omitempty" json:"iso_name,omitempty"`
	NativeName    string        `yaml:"native_name,omitempty" json:"native_name,omitempty"`
}

// AdminList is the ordered set of moderator addresses.
type AdminList []string

// Contains is an exact string membership test.
func (l AdminList) Contains(address string) bool {
	return slices.Contains(l, address)
}

// CategoryEntry is one value of the categories contract mapping.
type CategoryEntry struct {
	Slug     string `json:"slug"`
	Label    string `json:"label"`
	Language string `json:"lang"`
	Order    int64  `json:"order"`
	Active   bool   `json:"active"`
	Parent   string `json:"parent_id,omitempty"`
}

// PageIndexEntry is the token contract's record for one approved slug.
type PageIndexEntry struct {
	Content      string `json:"content"`
	Start        int64  `json:"start"`
	Sponsor      string `json:"sponsor"`
	PageRewardAt int64  `json:"pageRewardAt"`
	Active       bool   `json:"active"`
	Value        int64  `json:"value,omitempty"`
}

// PageTransaction holds the fields extracted from a content transaction's tags.
// It is immutable; an edit is a new transaction.
type PageTransaction struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Language string `json:"language"`
	Value    string `json:"value"`
	Img      string `json:"img"`
	Owner    string `json:"owner"`
	Block    int64  `json:"block"`
}

// ResolvedPage is a PageTransaction joined with its index entry.
type ResolvedPage struct {
	PageTransaction
	Start        int64  `json:"start"`
	Sponsor      string `json:"sponsor"`
	PageRewardAt int64  `json:"pageRewardAt"`
}
