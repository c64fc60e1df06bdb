package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/config"
	"github.com/roach88/arwiki/internal/devnet"
)

const workflowConfig = `default_network: localhost
preferences_path: prefs.yaml
networks:
  - name: localhost
    host: 127.0.0.1
    port: 1984
    protocol: http
    use_gateway: false
    contract_address: arwiki-token
    dev_database: dev.db
    contracts:
      languages: arwiki-languages
      admins: arwiki-admins
      categories: arwiki-categories
`

const workflowFixture = `name: workflow
transactions:
  - ref: intro
    tags:
      - {name: Arwiki-Page-Slug, value: intro}
      - {name: Arwiki-Page-Title, value: Introduction}
      - {name: Arwiki-Page-Category, value: general}
      - {name: Arwiki-Page-Lang, value: en}
contracts:
  arwiki-token:
    ticker: WIKI
    pages:
      en:
        intro: {content: "${intro}", start: 1, sponsor: "${owner}", pageRewardAt: 50, active: true}
  arwiki-languages:
    languages:
      en: {active: true, writing_system: LTR}
      de: {active: false, writing_system: LTR}
  arwiki-admins:
    admins: ["${owner}"]
  arwiki-categories:
    categories:
      general: {label: General, lang: en, order: 1, active: true}
`

type workspace struct {
	dir     string
	config  string
	key     string
	fixture string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	w := &workspace{
		dir:     dir,
		config:  filepath.Join(dir, "arwiki.yaml"),
		key:     filepath.Join(dir, "mod.key"),
		fixture: filepath.Join(dir, "fixture.yaml"),
	}
	require.NoError(t, os.WriteFile(w.config, []byte(workflowConfig), 0o644))
	require.NoError(t, os.WriteFile(w.fixture, []byte(workflowFixture), 0o644))
	return w
}

// execute runs the root command with args plus --config and --format json.
func (w *workspace) execute(t *testing.T, args ...string) (*CLIResponse, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append(args, "--config", w.config, "--format", "json"))

	err := cmd.Execute()
	if out.Len() == 0 {
		return nil, err
	}
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), "stdout: %s\nstderr: %s", out.String(), errOut.String())
	return &resp, err
}

func decodeData(t *testing.T, resp *CLIResponse, v any) {
	t.Helper()
	require.NotNil(t, resp)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestWorkflow_SeedListModerate(t *testing.T) {
	w := newWorkspace(t)

	resp, err := w.execute(t, "keygen", "--out", w.key)
	require.NoError(t, err)
	var key KeygenResult
	decodeData(t, resp, &key)
	require.NotEmpty(t, key.Address)

	resp, err = w.execute(t, "devnet", "seed", w.fixture, "--key", w.key)
	require.NoError(t, err)
	var seeded SeedResult
	decodeData(t, resp, &seeded)
	assert.Equal(t, key.Address, seeded.Owner)
	assert.Equal(t, int64(1), seeded.Height)
	introID := seeded.Refs["intro"]
	require.NotEmpty(t, introID)

	resp, err = w.execute(t, "pages", "list", "--lang", "en")
	require.NoError(t, err)
	var list PageListResult
	decodeData(t, resp, &list)
	require.Len(t, list.Pages, 1)
	assert.Equal(t, introID, list.Pages[0].ID)
	assert.Equal(t, "Introduction", list.Pages[0].Title)
	assert.Equal(t, key.Address, list.Pages[0].Sponsor)

	resp, err = w.execute(t, "bootstrap", "/en/intro", "--address", key.Address)
	require.NoError(t, err)
	var boot BootstrapResult
	decodeData(t, resp, &boot)
	assert.Equal(t, "allowed", boot.Outcome)
	assert.Equal(t, "en", boot.RouteLang)
	assert.Equal(t, "WIKI", boot.TokenTicker)
	assert.True(t, boot.IsModerator)

	prefs, err := config.LoadPreferences(filepath.Join(w.dir, "prefs.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "en", prefs.DefaultLanguage())

	resp, err = w.execute(t, "moderator", "--key", w.key)
	require.NoError(t, err)
	var mod ModeratorResult
	decodeData(t, resp, &mod)
	assert.True(t, mod.IsModerator)

	resp, err = w.execute(t, "unlist", "--key", w.key,
		"--id", introID, "--slug", "intro", "--category", "general", "--lang", "en")
	require.NoError(t, err)
	var unlisted MutationResult
	decodeData(t, resp, &unlisted)
	assert.NotEmpty(t, unlisted.TxID)
	assert.Equal(t, key.Address, unlisted.Owner)

	resp, err = w.execute(t, "stop-stake", "--key", w.key, "--slug", "intro", "--lang", "en")
	require.NoError(t, err)
	var stopped MutationResult
	decodeData(t, resp, &stopped)
	assert.NotEqual(t, unlisted.TxID, stopped.TxID)

	resp, err = w.execute(t, "pages", "dashboard", "--lang", "en")
	require.NoError(t, err)
	var dash struct {
		Height int64 `json:"height"`
		Pages  []struct {
			Slug string `json:"slug"`
			Age  int64  `json:"age"`
		} `json:"pages"`
	}
	decodeData(t, resp, &dash)
	assert.Equal(t, int64(3), dash.Height)
	require.Len(t, dash.Pages, 1)
	assert.Equal(t, int64(2), dash.Pages[0].Age)
}

func TestWorkflow_DeniedLanguage(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.execute(t, "devnet", "seed", w.fixture)
	require.NoError(t, err)

	resp, err := w.execute(t, "bootstrap", "/de")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, arwiki.IsKind(err, arwiki.KindLanguageDenied))

	var boot BootstrapResult
	decodeData(t, resp, &boot)
	assert.Equal(t, "denied", boot.Outcome)
	assert.Equal(t, "/", boot.RedirectTo)
	assert.Equal(t, "WIKI", boot.TokenTicker)

	resp, err = w.execute(t, "pages", "list", "--lang", "de")
	require.Error(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeLanguageDenied, resp.Error.Code)
}

func TestWorkflow_UnknownProtocolVersion(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.execute(t, "keygen", "--out", w.key)
	require.NoError(t, err)
	_, err = w.execute(t, "devnet", "seed", w.fixture, "--key", w.key)
	require.NoError(t, err)

	resp, err := w.execute(t, "stop-stake", "--key", w.key, "--slug", "intro", "--lang", "en", "--protocol-version", "9")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeSubmissionFailure, resp.Error.Code)
}

func TestWorkflow_MissingKeyFile(t *testing.T) {
	w := newWorkspace(t)
	resp, err := w.execute(t, "unlist", "--key", filepath.Join(w.dir, "absent.key"),
		"--id", "x", "--slug", "intro", "--category", "general", "--lang", "en")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	require.NotNil(t, resp.Error)
}

func TestWorkflow_Validate(t *testing.T) {
	w := newWorkspace(t)
	resp, err := w.execute(t, "validate")
	require.NoError(t, err)
	var result ValidationResult
	decodeData(t, resp, &result)
	assert.True(t, result.Valid)
	require.Len(t, result.Networks, 1)
	assert.Equal(t, "http://127.0.0.1:1984", result.Networks[0].BaseURL)
	assert.Equal(t, "local:"+filepath.Join(w.dir, "dev.db"), result.Networks[0].Binding)

	bad := filepath.Join(w.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("default_network: x\nnetworks: []\n"), 0o644))
	_, err = w.execute(t, "validate", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestWorkflow_DevnetRequiresLocalLedger(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.execute(t, "devnet", "seed", w.fixture, "--network", "mainnet")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	f, err := devnet.LoadFixture(w.fixture)
	require.NoError(t, err)
	assert.Equal(t, "workflow", f.Name)
}
