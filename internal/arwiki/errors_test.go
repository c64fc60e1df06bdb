package arwiki

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkUnavailable_WrapsAndClassifies(t *testing.T) {
	err := NetworkUnavailable("ledger.FetchByIDs", context.DeadlineExceeded)

	assert.True(t, IsKind(err, KindNetworkUnavailable))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "ledger.FetchByIDs")
}

func TestNetworkUnavailable_KeepsExistingClassification(t *testing.T) {
	denied := LanguageDenied("xx")
	err := NetworkUnavailable("bootstrap.Resolve", fmt.Errorf("wrap: %w", denied))

	assert.Equal(t, KindLanguageDenied, KindOf(err))
}

func TestNetworkUnavailable_Nil(t *testing.T) {
	assert.NoError(t, NetworkUnavailable("op", nil))
}

func TestIndexContentMismatch_Fields(t *testing.T) {
	err := IndexContentMismatch("other", "T2", "en")

	assert.Equal(t, KindIndexContentMismatch, err.Kind)
	assert.Equal(t, "other", err.Fields["slug"])
	assert.Equal(t, "T2", err.Fields["tx_id"])
	assert.Equal(t, "INDEX_CONTENT_MISMATCH query.Merge: content transaction slug is not present in the page index (language=en, slug=other, tx_id=T2)", err.Error())
}

func TestSubmissionFailure_DoesNotDoubleWrap(t *testing.T) {
	inner := SubmissionFailure("mutation.UnlistPage", map[string]string{"slug": "intro"}, errors.New("boom"))
	outer := SubmissionFailure("cli.unlist", nil, inner)

	assert.Same(t, inner, outer)
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindNetworkUnavailable))
}

func TestAdminListContains(t *testing.T) {
	l := AdminList{"addr-1", "addr-2"}

	assert.True(t, l.Contains("addr-2"))
	assert.False(t, l.Contains("ADDR-2"))
	assert.False(t, l.Contains(""))
}

func TestNetworkConfig(t *testing.T) {
	n := NetworkConfig{Host: "arweave.net", Port: 443, Protocol: "https"}
	assert.Equal(t, "https://arweave.net:443", n.BaseURL())
	assert.False(t, n.IsLoopback())

	for _, host := range []string{"localhost", "127.0.0.1", "::1"} {
		assert.True(t, NetworkConfig{Host: host}.IsLoopback(), host)
	}
	assert.Equal(t, "http://[::1]:1984", NetworkConfig{Host: "::1", Port: 1984, Protocol: "http"}.BaseURL())
}
