package tests

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"runtime/debug"
	"testing"

	"github.com/tokenized/settlement/internal/platform/db"
	"github.com/tokenized/settlement/pkg/bitcoin"

	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
)

// Success and failure markers.
const (
	Success = "✓"
	Failed  = "✗"
)

// Test owns state for running and shutting down tests.
type Test struct {
	Context     context.Context
	logConfig   *logger.Config
	ContractKey bitcoin.Key
	DB          *db.DB
	root        string
}

// New is the entry point for tests. Storage lives in a temporary directory that is removed by
//   Close.
func New() *Test {
	test, err := setup()
	if err != nil {
		fmt.Printf("Failed to setup test : %s\n", err)
		os.Exit(1)
	}
	return test
}

func setup() (*Test, error) {
	test := &Test{}

	test.logConfig = logger.NewDevelopmentConfig()
	test.logConfig.Main.SetWriter(os.Stdout)
	test.logConfig.Main.Format |= logger.IncludeSystem | logger.IncludeMicro
	test.logConfig.Main.MinLevel = logger.LevelDebug

	test.Context = logger.ContextWithLogConfig(context.Background(), test.logConfig)

	var err error
	test.root, err = ioutil.TempDir("", "settlement")
	if err != nil {
		return nil, errors.Wrap(err, "temp dir")
	}

	test.DB, err = db.New(&db.StorageConfig{
		Bucket: "standalone",
		Root:   test.root,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create DB")
	}

	test.ContractKey, err = bitcoin.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to generate contract key")
	}

	return test, nil
}

// Reset replaces the storage with an empty one.
func (test *Test) Reset() error {
	if test.DB != nil {
		test.DB.Close()
	}
	if len(test.root) > 0 {
		os.RemoveAll(test.root)
	}

	var err error
	test.root, err = ioutil.TempDir("", "settlement")
	if err != nil {
		return errors.Wrap(err, "temp dir")
	}

	test.DB, err = db.New(&db.StorageConfig{
		Bucket: "standalone",
		Root:   test.root,
	})
	return err
}

// Close removes the test storage.
func (test *Test) Close() {
	if test.DB != nil {
		test.DB.Close()
	}
	if len(test.root) > 0 {
		os.RemoveAll(test.root)
	}
}

// Recover is used to prevent panics from allowing the test to cleanup.
func Recover(t testing.TB) {
	if r := recover(); r != nil {
		t.Fatal("Unhandled Exception:", string(debug.Stack()))
	}
}
