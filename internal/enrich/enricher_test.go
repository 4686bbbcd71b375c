package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"monumenten/internal/erfgoed"
	"monumenten/internal/table"
)

func TestEnricher_Run(t *testing.T) {
	m := &fakeMonument{results: map[string]erfgoed.MonumentResult{"0599010000183527": monumentHit("32807")}}
	g := &fakeGezicht{results: map[string]erfgoed.GezichtResult{
		"0599010000183527": {IsBeschermdGezicht: true, Naam: "Rotterdam - Scheepvaartkwartier"},
	}}
	s := &fakeSuccessors{}

	tab := &table.Table{
		Columns: []string{"bag_verblijfsobject_id", "adres"},
		Records: []table.Record{
			{"bag_verblijfsobject_id": "0599010000183527", "adres": "Veerhaven 1"},
			{"bag_verblijfsobject_id": "0599010000486642", "adres": "Veerhaven 2"},
		},
	}

	enricher := NewEnricher(NewResolver(m, g, s, zap.NewNop()), zap.NewNop())
	require.NoError(t, enricher.Run(context.Background(), tab, "bag_verblijfsobject_id"))

	assert.Equal(t, []string{
		"bag_verblijfsobject_id", "adres",
		"is_rijksmonument", "rijksmonument_url",
		"is_beschermd_gezicht", "beschermd_gezicht_naam",
		"fallback_bag_verblijfsobject_id",
	}, tab.Columns)

	hit := tab.Records[0]
	assert.Equal(t, "Veerhaven 1", hit["adres"], "original columns preserved")
	assert.Equal(t, "True", hit["is_rijksmonument"])
	assert.Equal(t, "https://www.monumenten.nl/monument/32807", hit["rijksmonument_url"])
	assert.Equal(t, "True", hit["is_beschermd_gezicht"])
	assert.Equal(t, "Rotterdam - Scheepvaartkwartier", hit["beschermd_gezicht_naam"])
	assert.Equal(t, "", hit["fallback_bag_verblijfsobject_id"])

	miss := tab.Records[1]
	assert.Equal(t, "Veerhaven 2", miss["adres"])
	assert.Equal(t, "False", miss["is_rijksmonument"])
	assert.Equal(t, "", miss["rijksmonument_url"])
	assert.Equal(t, "False", miss["is_beschermd_gezicht"])
	assert.Equal(t, "", miss["beschermd_gezicht_naam"])
	assert.Equal(t, "", miss["fallback_bag_verblijfsobject_id"])
}

func TestEnricher_Run_FallbackColumn(t *testing.T) {
	m := &fakeMonument{results: map[string]erfgoed.MonumentResult{"0599010000999999": monumentHit("12345")}}
	g := &fakeGezicht{}
	s := &fakeSuccessors{successors: map[string]string{"0599010000486642": "0599010000999999"}}

	tab := &table.Table{
		Columns: []string{"bag_verblijfsobject_id"},
		Records: []table.Record{{"bag_verblijfsobject_id": "0599010000486642"}},
	}

	enricher := NewEnricher(NewResolver(m, g, s, zap.NewNop()), zap.NewNop())
	require.NoError(t, enricher.Run(context.Background(), tab, "bag_verblijfsobject_id"))

	rec := tab.Records[0]
	assert.Equal(t, "0599010000999999", rec["fallback_bag_verblijfsobject_id"])
	assert.Equal(t, "True", rec["is_rijksmonument"])
	assert.Equal(t, "https://www.monumenten.nl/monument/12345", rec["rijksmonument_url"])
}

func TestEnricher_Run_Cancelled(t *testing.T) {
	tab := &table.Table{
		Columns: []string{"id"},
		Records: []table.Record{{"id": "1"}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enricher := NewEnricher(NewResolver(&fakeMonument{}, &fakeGezicht{}, nil, zap.NewNop()), zap.NewNop())
	assert.Error(t, enricher.Run(ctx, tab, "id"))
}
