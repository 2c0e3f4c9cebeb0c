package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderPlan_YAMLAndJSON(t *testing.T) {
	yml := "orders:\n  projects: [c, a, b]\n  tech:\n    - go\n    - zig\n"
	plan, err := ParseOrderPlan([]byte(yml))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, plan.Orders["projects"])

	js := `{"orders":{"services":["s2","s1"]}}`
	plan, err = ParseOrderPlan([]byte(js))
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1"}, plan.Orders["services"])
}

func TestParseOrderPlan_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseOrderPlan([]byte("order:\n  projects: [a]\n"))
	require.Error(t, err)

	_, err = ParseOrderPlan(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestEntries_CanonicalOrderAndAliases(t *testing.T) {
	plan := &OrderPlan{Orders: map[string][]string{
		"testimonials": {"t1"},
		"tech":         {"go"},
		"Projects":     {"p1"},
	}}
	entries := plan.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ContentProjects, entries[0].ContentType)
	assert.Equal(t, domain.ContentTechnologies, entries[1].ContentType)
	assert.Equal(t, domain.ContentTestimonials, entries[2].ContentType)
}

func TestValidateOrderPlan(t *testing.T) {
	tests := []struct {
		name    string
		plan    *OrderPlan
		wantErr []string
	}{
		{"valid", &OrderPlan{Orders: map[string][]string{"projects": {"a", "b"}}}, nil},
		{"empty plan", &OrderPlan{}, []string{"at least one content type"}},
		{"unknown type", &OrderPlan{Orders: map[string][]string{"widgets": {"a"}}}, []string{"orders.widgets"}},
		{"empty list", &OrderPlan{Orders: map[string][]string{"services": {}}}, []string{"at least one id"}},
		{"duplicate id", &OrderPlan{Orders: map[string][]string{"projects": {"a", "b", "a"}}}, []string{`duplicate id "a"`}},
		{"blank id", &OrderPlan{Orders: map[string][]string{"projects": {"a", ""}}}, []string{"id is empty"}},
		{"alias clash", &OrderPlan{Orders: map[string][]string{"projects": {"a"}, "project": {"a"}}}, []string{"same content type"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateOrderPlan(tt.plan)
			if tt.wantErr == nil {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, len(tt.wantErr))
			for i, want := range tt.wantErr {
				assert.Contains(t, errs[i].Error(), want)
			}
		})
	}
}

func TestWriteThenLoad(t *testing.T) {
	plan := NewOrderPlan(map[domain.ContentType][]domain.Item{
		domain.ContentServices: {{ID: "s2"}, {ID: "s1"}},
		domain.ContentProjects: {{ID: "p1"}},
	})
	var buf bytes.Buffer
	require.NoError(t, plan.Write(&buf))
	out := buf.String()
	assert.Less(t, strings.Index(out, "projects"), strings.Index(out, "services"))

	path := filepath.Join(t.TempDir(), "order.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	loaded, err := LoadOrderPlan(path, nil)
	require.NoError(t, err)
	assert.Equal(t, plan.Orders, loaded.Orders)

	loaded, err = LoadOrderPlan("-", strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1"}, loaded.Orders["services"])
}
