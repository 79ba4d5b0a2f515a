package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"

	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/builder"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/forest"
	"github.com/FedericoMarcuzzi/TREANT/queue"
	queuejson "github.com/FedericoMarcuzzi/TREANT/queue/json"
	"github.com/FedericoMarcuzzi/TREANT/queue/redisq"
	"github.com/FedericoMarcuzzi/TREANT/tree"
	"github.com/FedericoMarcuzzi/TREANT/tree/redisstore"
)

const (
	distributedTaskMaxRun = time.Minute
	distributedLockTTL    = 5 * time.Second
)

type trainCmdConfig struct {
	*rootCmdConfig
	attackerInput string
	dataInput     string
	labelInput    string
	budget        float64
	maxDepth      int
	workers       int
	estimators    int
	variant       int
	output        string
	distributed   bool
	redisAddr     string
	queueID       string
}

func trainCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &trainCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a forest of adversarially robust regression trees",
		Long:  `Train a forest of regression trees robust to the perturbations declared in an attacker rule file.`,
		Run: func(cmd *cobra.Command, args []string) {
			l := logger(config.verbose)
			if err := config.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			l.Logf("Reading dataset from %s (labels from %s)...", config.dataInput, config.labelInput)
			ds, err := config.readDataset()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			l.Logf("Reading attacker rules from %s...", config.attackerInput)
			atk, err := config.readAttacker(ds.Features())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}

			if config.variant == 1 {
				l.Logf("variant 1 requested: no alternate algorithm is implemented, training with the SSE variant")
			}

			features := make([]int, len(ds.Features()))
			for i := range features {
				features[i] = i
			}
			cfg := forest.Config{
				Estimators:  config.estimators,
				MaxFeatures: 0,
				Config: builder.Config{
					MaxDepth:   config.maxDepth,
					MinPerNode: 1,
					Budget:     config.budget,
					Workers:    config.workers,
				},
			}
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))

			l.Logf("Growing a forest of %d tree(s) over %d samples, %d features, budget %v, depth %d, %d worker(s)...",
				cfg.Estimators, ds.Len(), len(features), config.budget, config.maxDepth, config.workers)
			var f *forest.Forest
			if config.distributed {
				l.Logf("distributing node growth through redis at %s (queue %q)...", config.redisAddr, config.queueID)
				rc := redis.NewClient(&redis.Options{Addr: config.redisAddr})
				defer rc.Close()
				nFeatures := len(ds.Features())
				newQueue := func(estimator int) queue.Queue {
					id := fmt.Sprintf("%s:tree%d", config.queueID, estimator)
					return redisq.New(id, rc, distributedTaskMaxRun, distributedLockTTL, queuejson.New(nFeatures))
				}
				newStore := func(estimator int) tree.NodeStore {
					prefix := fmt.Sprintf("%s:tree%d:node", config.queueID, estimator)
					return redisstore.New(rc, prefix, redisstore.NewJSONNodeEncodeDecoder())
				}
				f, err = forest.FitDistributed(context.Background(), ds, atk, labelName, cfg, rng, newQueue, newStore)
			} else {
				f, err = forest.Fit(context.Background(), ds, atk, labelName, cfg, rng)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			l.Logf("Done")

			out, err := openOutput(config.output)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			defer out.Close()
			if err := forest.WriteJSON(context.Background(), f, out); err != nil {
				fmt.Fprintf(os.Stderr, "writing forest: %v\n", err)
				os.Exit(5)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.attackerInput), "attacker", "a", "", "path to a YAML attacker rule file (required)")
	cmd.Flags().StringVarP(&(config.dataInput), "features", "f", "", "path to the dataset's feature file, native columnar format (required)")
	cmd.Flags().StringVarP(&(config.labelInput), "labels", "l", "", "path to the sibling label file, one value per line (required)")
	cmd.Flags().Float64VarP(&(config.budget), "budget", "b", 0, "adversary's perturbation budget")
	cmd.Flags().IntVarP(&(config.maxDepth), "depth", "d", 1, "maximum tree depth")
	cmd.Flags().IntVarP(&(config.workers), "workers", "j", 1, "worker threads for the per-node feature search")
	cmd.Flags().IntVarP(&(config.estimators), "estimators", "e", 1, "number of trees in the ensemble")
	cmd.Flags().IntVarP(&(config.variant), "variant", "i", 0, "algorithm variant (0: SSE; 1 is reserved, runs as 0)")
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to write the trained forest in JSON (defaults to STDOUT)")
	cmd.Flags().BoolVar(&(config.distributed), "distributed", false, "hand off node growth to a redis-backed queue instead of growing each tree in-process")
	cmd.Flags().StringVar(&(config.redisAddr), "redis-addr", "localhost:6379", "address of the redis instance backing --distributed")
	cmd.Flags().StringVar(&(config.queueID), "queue-id", "treant", "key prefix for this run's tasks and nodes on redis, used by --distributed")
	return cmd
}

func (tc *trainCmdConfig) Validate() error {
	if tc.attackerInput == "" {
		return fmt.Errorf("required attacker flag was not set")
	}
	if tc.dataInput == "" {
		return fmt.Errorf("required features flag was not set")
	}
	if tc.labelInput == "" {
		return fmt.Errorf("required labels flag was not set")
	}
	if tc.budget < 0 {
		return fmt.Errorf("budget must be >= 0")
	}
	if tc.maxDepth < 0 {
		return fmt.Errorf("depth must be >= 0")
	}
	if tc.workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}
	if tc.estimators < 1 {
		return fmt.Errorf("estimators must be >= 1")
	}
	if tc.variant != 0 && tc.variant != 1 {
		return fmt.Errorf("variant must be 0 or 1")
	}
	if tc.distributed {
		if tc.redisAddr == "" {
			return fmt.Errorf("redis-addr must be set when distributed is enabled")
		}
		if tc.queueID == "" {
			return fmt.Errorf("queue-id must be set when distributed is enabled")
		}
	}
	return nil
}

func (tc *trainCmdConfig) readDataset() (*dataset.Dataset, error) {
	ff, err := openInput(tc.dataInput)
	if err != nil {
		return nil, err
	}
	defer ff.Close()
	lf, err := openInput(tc.labelInput)
	if err != nil {
		return nil, err
	}
	defer lf.Close()
	ds, err := dataset.ReadColumnar(ff, lf)
	if err != nil {
		return nil, fmt.Errorf("reading training set: %v", err)
	}
	return ds, nil
}

func (tc *trainCmdConfig) readAttacker(features []*feature.Feature) (*attacker.Attacker, error) {
	af, err := openInput(tc.attackerInput)
	if err != nil {
		return nil, err
	}
	defer af.Close()
	kinds := make(map[string]feature.Kind, len(features))
	for _, f := range features {
		kinds[f.Name()] = f.Kind()
	}
	rules, err := attacker.ParseRules(af, kinds)
	if err != nil {
		return nil, fmt.Errorf("reading attacker rules: %v", err)
	}
	atk, err := attacker.New(rules, features)
	if err != nil {
		return nil, fmt.Errorf("building attacker: %v", err)
	}
	return atk, nil
}
