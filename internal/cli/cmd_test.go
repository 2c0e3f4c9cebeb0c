package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/folio/internal/api"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/service"
	"github.com/alexanderramin/folio/internal/session"
	"github.com/alexanderramin/folio/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App against a fake backend and an in-memory store,
// with the admin already logged in.
func testApp(t *testing.T) (*App, *testutil.FakeBackend) {
	t.Helper()
	database := testutil.NewTestDB(t)
	backend := testutil.NewFakeBackend(t)

	sessions := session.NewManager(repository.NewSQLiteSessionRepo(database, testutil.NewTestUoW(database)))
	require.NoError(t, sessions.Set(context.Background(), domain.Session{
		Token:    backend.Token,
		Username: testutil.FakeUsername,
		IssuedAt: time.Now().UTC(),
	}))
	client := api.NewClient(backend.URL(), 2*time.Second, sessions)

	return &App{
		Orders:        service.NewOrderService(client, repository.NewSQLiteCommitLogRepo(database)),
		Content:       service.NewContentService(client),
		Auth:          service.NewAuthService(client, sessions),
		IsInteractive: func() bool { return false },
		MarkdownStyle: "notty",
	}, backend
}

func firstID(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var recs []map[string]any
	require.NoError(t, json.Unmarshal(raw, &recs))
	require.NotEmpty(t, recs)
	id, _ := recs[0]["id"].(string)
	require.NotEmpty(t, id)
	return id
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- auth ---

func TestLoginCmd_PasswordStdin(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "", "logout")
	require.NoError(t, err)

	out, err := executeCmd(t, app, testutil.FakePassword+"\n", "login", "--user", testutil.FakeUsername, "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as")

	out, err = executeCmd(t, app, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, testutil.FakeUsername)
}

func TestLoginCmd_NoTerminal(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "", "login", "--user", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password-stdin")
}

func TestWhoamiCmd_LoggedOut(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "", "logout")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "", "whoami")
	assert.ErrorIs(t, err, session.ErrNoSession)
}

// --- list / order ---

func TestListCmd_ShowsDisplayOrder(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentProjects, []domain.Item{
		testutil.NewTestItem("p2", 2, func(it *domain.Item) { it.Title = "Second" }),
		testutil.NewTestItem("p1", 1, func(it *domain.Item) { it.Title = "First" }),
	})

	out, err := executeCmd(t, app, "", "list", "project")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "First"), strings.Index(out, "Second"))
}

func TestListCmd_All(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentServices, testutil.NewTestItems("a", "b"))

	out, err := executeCmd(t, app, "", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Services")
	assert.Contains(t, out, "2 items total")
}

func TestListCmd_RequiresTarget(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "", "list")
	require.Error(t, err)

	_, err = executeCmd(t, app, "", "list", "widgets")
	require.Error(t, err)
}

func TestOrderMoveCmd(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentTechnologies, testutil.NewTestItems("go", "rust", "zig"))

	out, err := executeCmd(t, app, "", "order", "move", "tech", "--from", "3", "--to", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved.")
	assert.Equal(t, []string{"zig", "go", "rust"}, domain.IDs(backend.Items(domain.ContentTechnologies)))
}

func TestOrderMoveCmd_SamePositionSendsNothing(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentTechnologies, testutil.NewTestItems("go", "rust"))

	out, err := executeCmd(t, app, "", "order", "move", "technologies", "--from", "2", "--to", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")
	assert.Empty(t, backend.OrderCalls())
}

func TestOrderMoveCmd_FailureReportsRevert(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentProjects, testutil.NewTestItems("a", "b"))
	backend.FailOrders(500)

	_, err := executeCmd(t, app, "", "order", "move", "projects", "--from", "1", "--to", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing changed on the server")
	assert.Equal(t, []string{"a", "b"}, domain.IDs(backend.Items(domain.ContentProjects)))
}

func TestOrderSetCmd(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentTestimonials, testutil.NewTestItems("t1", "t2", "t3"))

	_, err := executeCmd(t, app, "", "order", "set", "testimonials", "t3", "t1", "t2")
	require.NoError(t, err)
	assert.Equal(t, []string{"t3", "t1", "t2"}, domain.IDs(backend.Items(domain.ContentTestimonials)))

	_, err = executeCmd(t, app, "", "order", "set", "testimonials", "t3", "t1")
	assert.ErrorIs(t, err, service.ErrNotPermutation)
}

func TestOrderHistoryCmd(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentProjects, testutil.NewTestItems("a", "b"))

	_, err := executeCmd(t, app, "", "order", "move", "projects", "--from", "1", "--to", "2")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "", "order", "history", "projects")
	require.NoError(t, err)
	assert.Contains(t, out, "projects")
	assert.Contains(t, out, "ok")

	out, err = executeCmd(t, app, "", "order", "history", "services")
	require.NoError(t, err)
	assert.Contains(t, out, "No commits")
}

// --- content ---

func TestCreateUpdateDeleteCmds(t *testing.T) {
	app, backend := testApp(t)

	out, err := executeCmd(t, app, "", "create", "contact", "--data", `{"name":"Ada"}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ada"`)

	raw, err := app.Content.List(context.Background(), domain.ResourceContacts)
	require.NoError(t, err)
	id := firstID(t, raw)

	_, err = executeCmd(t, app, `{"name":"Grace"}`, "update", "contacts", id, "--file", "-")
	require.NoError(t, err)
	rec, ok := backend.Record(domain.ResourceContacts, id)
	require.True(t, ok)
	assert.Contains(t, string(rec), "Grace")

	out, err = executeCmd(t, app, "", "delete", "contacts", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted contacts "+id)
}

func TestCreateCmd_PayloadErrors(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "", "create", "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload is required")

	_, err = executeCmd(t, app, "", "create", "users", "--data", "{nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")

	_, err = executeCmd(t, app, "", "create", "users", "--data", "{}", "--file", "x.json")
	require.Error(t, err)
}

func TestShowCmd_RendersDescription(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentProjects, []domain.Item{
		testutil.NewTestItem("p1", 1, testutil.WithDescription("A *terminal* admin."), testutil.WithSubtitle("CLI")),
	})

	out, err := executeCmd(t, app, "", "show", "projects", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "ITEM P1")
	assert.Contains(t, out, "terminal")
	assert.Contains(t, out, "CLI")
}

func TestUploadCmd(t *testing.T) {
	app, backend := testApp(t)
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))

	out, err := executeCmd(t, app, "", "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, "/uploads/resume.pdf")
	_, ok := backend.Upload("resume.pdf")
	assert.True(t, ok)
}

// --- reorder ---

func TestReorderCmd_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "", "reorder", "projects")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order set")
}

func TestReorderCmd_RunsProgramWithLoadedList(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentExperiences, testutil.NewTestItems("e1", "e2"))
	app.IsInteractive = func() bool { return true }

	var got tea.Model
	app.RunProgram = func(m tea.Model) error {
		got = m
		return nil
	}

	_, err := executeCmd(t, app, "", "reorder", "experience")
	require.NoError(t, err)
	m, ok := got.(appModel)
	require.True(t, ok)
	assert.Equal(t, ViewReorder, m.activeView().ID())
	assert.Contains(t, m.View(), "Item e1")
}

func TestOrderExportImportCmd(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentProjects, testutil.NewTestItems("a", "b", "c"))
	backend.SetItems(domain.ContentServices, testutil.NewTestItems("s1", "s2"))

	path := filepath.Join(t.TempDir(), "order.yaml")
	out, err := executeCmd(t, app, "", "order", "export", "projects", "services", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote order of 2 content types")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "projects: [a, b, c]")

	edited := strings.Replace(string(data), "[a, b, c]", "[c, a, b]", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	out, err = executeCmd(t, app, "", "order", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Services unchanged")
	assert.Equal(t, []string{"c", "a", "b"}, domain.IDs(backend.Items(domain.ContentProjects)))
	assert.Len(t, backend.OrderCalls(), 1)
}

func TestOrderImportCmd_DryRunAndValidation(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentProjects, testutil.NewTestItems("a", "b"))

	out, err := executeCmd(t, app, "orders:\n  projects: [b, a]\n", "order", "import", "-", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Projects: 2 items")
	assert.Empty(t, backend.OrderCalls())

	_, err = executeCmd(t, app, "orders:\n  widgets: [x]\n  projects: [a, a]\n", "order", "import", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders.widgets")
	assert.Contains(t, err.Error(), `duplicate id "a"`)
}

func TestOrderImportCmd_PartialFailureStillAppliesOthers(t *testing.T) {
	app, backend := testApp(t)
	backend.SetItems(domain.ContentProjects, testutil.NewTestItems("a", "b"))
	backend.SetItems(domain.ContentServices, testutil.NewTestItems("s1", "s2"))

	plan := "orders:\n  projects: [b]\n  services: [s2, s1]\n"
	_, err := executeCmd(t, app, plan, "order", "import", "-")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotPermutation)
	assert.Contains(t, err.Error(), "1 of 2 content types not saved")
	assert.Equal(t, []string{"a", "b"}, domain.IDs(backend.Items(domain.ContentProjects)))
	assert.Equal(t, []string{"s2", "s1"}, domain.IDs(backend.Items(domain.ContentServices)))
}
