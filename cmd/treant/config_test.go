package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrainCmdConfigValidate(t *testing.T) {
	base := func() *trainCmdConfig {
		return &trainCmdConfig{
			rootCmdConfig: &rootCmdConfig{},
			attackerInput: "a.yml", dataInput: "f.txt", labelInput: "l.txt",
			budget: 1, maxDepth: 2, workers: 1, estimators: 1, variant: 0,
		}
	}

	assert.NoError(t, base().Validate())

	missingAttacker := base()
	missingAttacker.attackerInput = ""
	assert.Error(t, missingAttacker.Validate())

	negativeBudget := base()
	negativeBudget.budget = -1
	assert.Error(t, negativeBudget.Validate())

	zeroWorkers := base()
	zeroWorkers.workers = 0
	assert.Error(t, zeroWorkers.Validate())

	badVariant := base()
	badVariant.variant = 2
	assert.Error(t, badVariant.Validate())
}

func TestPredictCmdConfigValidate(t *testing.T) {
	valid := &predictCmdConfig{modelInput: "m.json", dataInput: "f.txt"}
	assert.NoError(t, valid.Validate())

	missingModel := &predictCmdConfig{dataInput: "f.txt"}
	assert.Error(t, missingModel.Validate())
}

func TestTestCmdConfigValidate(t *testing.T) {
	valid := &testCmdConfig{modelInput: "m.json", dataInput: "f.txt", labelInput: "l.txt"}
	assert.NoError(t, valid.Validate())

	missingLabels := &testCmdConfig{modelInput: "m.json", dataInput: "f.txt"}
	assert.Error(t, missingLabels.Validate())
}
