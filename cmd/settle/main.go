package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/settleconf/settle"
	"github.com/settleconf/settle/logging"
	"github.com/settleconf/settle/ssmstore"
)

func main() {
	app := kingpin.New("settle", "Resolves layered configuration (environment, remote parameter store, defaults) for a declared schema")
	schemaPath := app.Flag("schema", "Path to YAML schema file").Required().String()
	quiet := app.Flag("quiet", "Suppress per-item resolution output").Bool()
	keyID := app.Flag("key-id", "Non-default decryption key identifier for remote fetches").String()
	showValues := app.Flag("show-values", "Print resolved values instead of only sources (sensitive)").Bool()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	schema, err := settle.LoadSchemaFile(*schemaPath)
	if err != nil {
		logger.Fatal("failed to load schema", zap.Error(err))
	}

	ctx := context.Background()
	store, err := ssmstore.New(ctx)
	if err != nil {
		logger.Fatal("failed to build parameter store client", zap.Error(err))
	}

	manager := settle.New(store, settle.WithLogger(logger))
	if err := manager.SetSchema(schema); err != nil {
		logger.Fatal("failed to set schema", zap.Error(err))
	}

	opts := []settle.InitOption{settle.WithQuiet(*quiet)}
	if *keyID != "" {
		opts = append(opts, settle.WithDecryptionKey(*keyID))
	}
	if err := manager.Initialize(ctx, opts...); err != nil {
		logger.Fatal("configuration resolution failed", zap.Error(err))
	}

	for _, key := range manager.Keys() {
		record, ok := manager.Resolved(key)
		if !ok {
			continue
		}
		if *showValues {
			fmt.Printf("%s\t%s\t%v\n", key, record.Source, record.Value)
			continue
		}
		fmt.Printf("%s\t%s\n", key, record.Source)
	}
}
