package libaccess

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = ".libaccess.lib.mcmaster.ca"

func TestRewriteLink(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "publisher host restored",
			raw:  "https://pubs-acs-org.libaccess.lib.mcmaster.ca/doi/10.1021/acsami.9b00001",
			want: "https://pubs.acs.org/doi/10.1021/acsami.9b00001",
		},
		{
			name: "hyphens in path are kept",
			raw:  "https://www-sciencedirect-com.libaccess.lib.mcmaster.ca/science/article/pii/S0-1",
			want: "https://www.sciencedirect.com/science/article/pii/S0-1",
		},
		{
			name: "only the domain slot is replaced",
			raw:  "https://a-b.libaccess.lib.mcmaster.ca/a-b/c-d",
			want: "https://a.b/a-b/c-d",
		},
		{
			name: "query string kept",
			raw:  "https://go-openathens.libaccess.lib.mcmaster.ca/login?url=https://example.com/paper",
			want: "https://go.openathens/login?url=https://example.com/paper",
		},
		{
			name: "every marker occurrence removed",
			raw:  "http://onlinelibrary-wiley-com.libaccess.lib.mcmaster.ca/doi/full?r=x.libaccess.lib.mcmaster.ca",
			want: "http://onlinelibrary.wiley.com/doi/full?r=x",
		},
		{
			name: "host without path",
			raw:  "https://www-nature-com.libaccess.lib.mcmaster.ca",
			want: "https://www.nature.com",
		},
		{
			name: "no marker",
			raw:  "https://doi.org/10.1002/adma.201900001",
			want: "https://doi.org/10.1002/adma.201900001",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RewriteLink(tt.raw, marker)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteLink_Malformed(t *testing.T) {
	for _, raw := range []string{
		"pubs-acs-org.libaccess.lib.mcmaster.ca/doi/10.1021/x",
		"https://.libaccess.lib.mcmaster.ca/doi",
		".libaccess.lib.mcmaster.ca",
	} {
		t.Run(raw, func(t *testing.T) {
			got, err := RewriteLink(raw, marker)
			require.ErrorIs(t, err, ErrMalformedLink)
			assert.Contains(t, err.Error(), raw)
			assert.Equal(t, raw, got)
		})
	}
}

func TestRewriteLink_Idempotent(t *testing.T) {
	once, err := RewriteLink("https://pubs-rsc-org.libaccess.lib.mcmaster.ca/en/content/articlelanding/2019/tc", marker)
	require.NoError(t, err)

	twice, err := RewriteLink(once, marker)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestProcessRow(t *testing.T) {
	t.Run("row without marker is returned as is", func(t *testing.T) {
		row := []string{"Title", "Citation", "https://doi.org/10.1/x", "2020"}
		got, err := ProcessRow(row, -2, marker)
		require.NoError(t, err)
		if diff := cmp.Diff(row, got); diff != "" {
			t.Errorf("ProcessRow() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("link column rewritten without touching input", func(t *testing.T) {
		row := []string{"Title", "https://pubs-acs-org.libaccess.lib.mcmaster.ca/doi/1", "2020"}
		orig := append([]string(nil), row...)

		got, err := ProcessRow(row, -2, marker)
		require.NoError(t, err)

		want := []string{"Title", "https://pubs.acs.org/doi/1", "2020"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ProcessRow() mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, orig, row)
	})

	t.Run("positive column", func(t *testing.T) {
		row := []string{"https://www-jstor-org.libaccess.lib.mcmaster.ca/stable/1", "x"}
		got, err := ProcessRow(row, 0, marker)
		require.NoError(t, err)
		assert.Equal(t, "https://www.jstor.org/stable/1", got[0])
	})

	t.Run("row too short", func(t *testing.T) {
		for _, row := range [][]string{nil, {}, {"only"}} {
			got, err := ProcessRow(row, -2, marker)
			require.ErrorIs(t, err, ErrMalformedRow)
			assert.Equal(t, row, got)
		}
	})

	t.Run("positive column out of range", func(t *testing.T) {
		_, err := ProcessRow([]string{"a", "b"}, 2, marker)
		assert.ErrorIs(t, err, ErrMalformedRow)
	})

	t.Run("malformed link surfaces error", func(t *testing.T) {
		row := []string{"t", "ftp//x.libaccess.lib.mcmaster.ca", "2020"}
		got, err := ProcessRow(row, -2, marker)
		require.ErrorIs(t, err, ErrMalformedLink)
		assert.Equal(t, row, got)
	})
}
