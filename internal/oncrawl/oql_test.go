package oncrawl_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
)

func TestCondition_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cond oncrawl.Condition
		want string
	}{
		{"equals bool", oncrawl.Equals(oncrawl.FieldFetched, true), `{"field":["fetched","equals",true]}`},
		{"gt int", oncrawl.Gt(oncrawl.FieldInlinks, 0), `{"field":["nb_inlinks","gt",0]}`},
		{"gte int", oncrawl.Gte(oncrawl.FieldDepth, 4), `{"field":["depth","gte",4]}`},
		{"lte int", oncrawl.Lte(oncrawl.FieldInlinks, 3), `{"field":["nb_inlinks","lte",3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := json.Marshal(tt.cond)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestAggregation_RangesOmitOpenBounds(t *testing.T) {
	t.Parallel()

	agg := oncrawl.Aggregation{Fields: []oncrawl.AggField{{
		Name: oncrawl.FieldInlinks,
		Ranges: []oncrawl.Range{
			{Name: "0", To: oncrawl.Bound(1)},
			{Name: "50+", From: oncrawl.Bound(51)},
		},
	}}}

	got, err := json.Marshal(agg)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"fields":[{"name":"nb_inlinks","ranges":[{"name":"0","to":1},{"name":"50+","from":51}]}]}`,
		string(got))
}
