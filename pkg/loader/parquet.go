package loader

import (
	"context"

	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/xitongsys/parquet-go-source/local"

	"github.com/akhildatla/uvmasm/pkg/asm"
)

// LoadParquet reads a Parquet program table and converts it with FromFrame.
// Uses the dataframe-go imports package with parquet-go backend.
func LoadParquet(path string) ([]asm.Instruction, error) {
	// Open the parquet file using local file reader
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	ctx := context.Background()

	df, err := imports.LoadFromParquet(ctx, fr)
	if err != nil {
		return nil, err
	}

	return FromFrame(df)
}
