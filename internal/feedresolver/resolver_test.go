package feedresolver

import (
	"strings"
	"testing"

	"github.com/korolhresti/newsdigest/internal/models"
)

func strptr(s string) *string { return &s }

func TestQueryBuilderBuildOrdersArgsPositionally(t *testing.T) {
	qb := newQueryBuilder()
	qb.where("expires_at > CURRENT_TIMESTAMP")
	qb.where(qb.bind("tech") + " = ANY(tags)")
	qb.orderBy = "ORDER BY published_at DESC, id DESC"
	qb.limit = 5
	qb.offset = 10

	query, args := qb.build()

	if !strings.Contains(query, "WHERE expires_at > CURRENT_TIMESTAMP AND $1 = ANY(tags)") {
		t.Fatalf("expected AND-joined WHERE clause, got %q", query)
	}
	if !strings.Contains(query, "LIMIT $2") || !strings.Contains(query, "OFFSET $3") {
		t.Fatalf("expected limit/offset to be bound after prior args, got %q", query)
	}
	if len(args) != 3 || args[0] != "tech" || args[1] != 5 || args[2] != 10 {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestQueryBuilderSkipsLimitOffsetWhenZero(t *testing.T) {
	qb := newQueryBuilder()
	qb.where("1=1")
	query, args := qb.build()
	if strings.Contains(query, "LIMIT") || strings.Contains(query, "OFFSET") {
		t.Fatalf("expected no LIMIT/OFFSET clause, got %q", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %#v", args)
	}
}

func TestApplyScalarFilterNilIsNoOp(t *testing.T) {
	qb := newQueryBuilder()
	applyScalarFilter(qb, nil)
	if len(qb.conditions) != 0 {
		t.Fatalf("expected no conditions for nil filter, got %#v", qb.conditions)
	}
}

func TestApplyScalarFilterOnlyBindsSetFields(t *testing.T) {
	qb := newQueryBuilder()
	f := &models.Filter{Tag: strptr("tech"), Source: strptr("bbc")}
	applyScalarFilter(qb, f)

	if len(qb.conditions) != 2 {
		t.Fatalf("expected exactly 2 conditions (tag, source), got %#v", qb.conditions)
	}
	if !strings.Contains(qb.conditions[0], "= ANY(tags)") {
		t.Fatalf("expected tag condition to match ANY(tags), got %q", qb.conditions[0])
	}
	if !strings.Contains(qb.conditions[1], "source =") {
		t.Fatalf("expected source equality condition, got %q", qb.conditions[1])
	}
	if len(qb.args) != 2 || qb.args[0] != "tech" || qb.args[1] != "bbc" {
		t.Fatalf("unexpected bound args %#v", qb.args)
	}
}

func TestApplyCustomFeedFiltersORsWithinKindANDsAcrossKinds(t *testing.T) {
	qb := newQueryBuilder()
	filters := models.FeedFilters{
		models.FilterKindSources: {"A", "B"},
		models.FilterKindTags:    {"tech"},
	}
	applyCustomFeedFilters(qb, filters)

	if len(qb.conditions) != 2 {
		t.Fatalf("expected one condition per kind present, got %#v", qb.conditions)
	}
	joined := strings.Join(qb.conditions, " AND ")
	if !strings.Contains(joined, "source = ANY(") {
		t.Fatalf("expected source OR-within-kind via ANY(), got %q", joined)
	}
	if !strings.Contains(joined, "tags && ") {
		t.Fatalf("expected tag overlap condition, got %q", joined)
	}
	// Each kind must be a single bound array argument, not one bind per value.
	if len(qb.args) != 2 {
		t.Fatalf("expected one array arg per kind, got %#v", qb.args)
	}
}

func TestApplyCustomFeedFiltersSkipsEmptyValueLists(t *testing.T) {
	qb := newQueryBuilder()
	filters := models.FeedFilters{models.FilterKindTags: {}}
	applyCustomFeedFilters(qb, filters)
	if len(qb.conditions) != 0 {
		t.Fatalf("expected empty value list to contribute no condition, got %#v", qb.conditions)
	}
}

func TestApplyBlocksDominatesViaNegation(t *testing.T) {
	qb := newQueryBuilder()
	blocks := []*models.Block{
		{BlockType: models.BlockTypeTag, Value: "ai"},
		{BlockType: models.BlockTypeSource, Value: "spammy.example"},
	}
	applyBlocks(qb, blocks)

	if len(qb.conditions) != 2 {
		t.Fatalf("expected one exclusion condition per block, got %#v", qb.conditions)
	}
	if !strings.Contains(qb.conditions[0], "NOT (") {
		t.Fatalf("expected tag block to negate membership, got %q", qb.conditions[0])
	}
	if !strings.Contains(qb.conditions[1], "source !=") {
		t.Fatalf("expected source block to use inequality, got %q", qb.conditions[1])
	}
}

func TestBindArrayUsesOneArgPerCall(t *testing.T) {
	qb := newQueryBuilder()
	ph1 := qb.bindArray([]string{"a", "b", "c"})
	ph2 := qb.bind("x")
	if ph1 != "$1" || ph2 != "$2" {
		t.Fatalf("expected sequential placeholders, got %s, %s", ph1, ph2)
	}
	if len(qb.args) != 2 {
		t.Fatalf("expected bindArray to consume exactly one arg slot, got %#v", qb.args)
	}
}

func TestBindInt64ArrayCastsToBigintArray(t *testing.T) {
	qb := newQueryBuilder()
	ph := qb.bindInt64Array([]int64{1, 2, 3})
	if ph != "$1::bigint[]" {
		t.Fatalf("expected explicit bigint[] cast for seen-set exclusion, got %q", ph)
	}
}
