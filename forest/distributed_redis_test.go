package forest

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "gopkg.in/redis.v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/builder"
	"github.com/FedericoMarcuzzi/TREANT/queue"
	queuejson "github.com/FedericoMarcuzzi/TREANT/queue/json"
	"github.com/FedericoMarcuzzi/TREANT/queue/redisq"
	"github.com/FedericoMarcuzzi/TREANT/tree"
	"github.com/FedericoMarcuzzi/TREANT/tree/redisstore"
)

func TestFitDistributedMatchesFit(t *testing.T) {
	ds := twoClusterDataset(t)
	atk, err := attacker.New(nil, ds.Features())
	require.NoError(t, err)
	cfg := Config{Estimators: 2, Config: builder.Config{MaxDepth: 2, MinPerNode: 1, Workers: 1}}

	want, err := Fit(context.Background(), ds, atk, "label", cfg, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	nFeatures := len(ds.Features())
	newQueue := func(e int) queue.Queue {
		id := fmt.Sprintf("fit:tree%d", e)
		return redisq.New(id, rc, time.Minute, time.Second, queuejson.New(nFeatures))
	}
	newStore := func(e int) tree.NodeStore {
		prefix := fmt.Sprintf("fit:tree%d:node", e)
		return redisstore.New(rc, prefix, redisstore.NewJSONNodeEncodeDecoder())
	}

	got, err := FitDistributed(context.Background(), ds, atk, "label", cfg, rand.New(rand.NewSource(11)), newQueue, newStore)
	require.NoError(t, err)
	require.Len(t, got.Trees, len(want.Trees))

	for i := 0; i < ds.Len(); i++ {
		wp, err := Predict(context.Background(), want, ds.Record(i))
		require.NoError(t, err)
		gp, err := Predict(context.Background(), got, ds.Record(i))
		require.NoError(t, err)
		assert.Equal(t, wp, gp, "record %d", i)
	}
}
