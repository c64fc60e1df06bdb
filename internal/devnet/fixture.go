// Package devnet seeds the local SQLite ledger from YAML fixtures.
//
// A fixture lists content transactions and contract state snapshots. Contract
// states may reference the ids of the fixture's transactions as ${ref}, and
// the seeding key's address as ${owner}, so an index can point at content
// whose id is only known after signing.
//
//	name: intro
//	transactions:
//	  - ref: intro
//	    tags:
//	      - {name: Arwiki-Page-Slug, value: intro}
//	      - {name: Arwiki-Page-Lang, value: en}
//	    data: "# Intro"
//	contracts:
//	  arwiki-token:
//	    ticker: WIKI
//	    pages:
//	      en:
//	        intro: {content: "${intro}", start: 1, active: true}
package devnet

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/arwiki/internal/ledger"
)

// OwnerRef is the placeholder replaced by the seeding key's address.
const OwnerRef = "owner"

// Fixture is a devnet seed file.
type Fixture struct {
	// Name identifies the fixture. It is part of every transaction anchor, so
	// reseeding the same fixture with the same key is a no-op.
	Name string `yaml:"name"`

	// Description is free text.
	Description string `yaml:"description,omitempty"`

	// Transactions are signed and submitted in order.
	Transactions []Transaction `yaml:"transactions,omitempty"`

	// Contracts maps contract ids to their state snapshot.
	Contracts map[string]any `yaml:"contracts,omitempty"`
}

// Transaction is one fixture transaction.
type Transaction struct {
	// Ref names the transaction for ${ref} substitution.
	Ref    string      `yaml:"ref"`
	Tags   ledger.Tags `yaml:"tags"`
	Data   string      `yaml:"data,omitempty"`
	Target string      `yaml:"target,omitempty"`
}

// LoadFixture reads and parses a fixture file.
// Unknown fields are rejected.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture YAML.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateFixture(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

func validateFixture(f *Fixture) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(f.Transactions) == 0 && len(f.Contracts) == 0 {
		return fmt.Errorf("transactions or contracts are required")
	}

	refs := make(map[string]bool, len(f.Transactions))
	for i, tx := range f.Transactions {
		if tx.Ref == "" {
			return fmt.Errorf("transactions[%d]: ref is required", i)
		}
		if tx.Ref == OwnerRef {
			return fmt.Errorf("transactions[%d]: ref %q is reserved", i, OwnerRef)
		}
		if refs[tx.Ref] {
			return fmt.Errorf("transactions[%d]: duplicate ref %q", i, tx.Ref)
		}
		refs[tx.Ref] = true
		for j, tag := range tx.Tags {
			if tag.Name == "" {
				return fmt.Errorf("transactions[%d].tags[%d]: name is required", i, j)
			}
		}
	}

	for id := range f.Contracts {
		if id == "" {
			return fmt.Errorf("contracts: empty contract id")
		}
	}
	return nil
}
