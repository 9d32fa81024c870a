package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"lipidflow/adapters/refmet"
	"lipidflow/adapters/tabular"
	"lipidflow/app"
	"lipidflow/domain/resolve"
	"lipidflow/domain/standardize"
)

func main() {
	var (
		vocabPath  = flag.String("vocab", "", "path to RefMet tab-separated vocabulary export")
		lipidCol   = flag.String("lipid-column", "", "lipid name column (index or name, default 0)")
		sampleCols = flag.String("sample-columns", "", "comma-separated sample columns (indices or names)")
		groupsJSON = flag.String("groups", "", "JSON map of group label to sample IDs")
		doValidate = flag.Bool("validate", false, "run the data-quality rule battery")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import [flags] <file.csv|file.tsv|file.xlsx>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	_ = godotenv.Load()

	if *vocabPath == "" {
		*vocabPath = os.Getenv("VOCABULARY_PATH")
	}
	vocab, err := refmet.Load(*vocabPath)
	if err != nil {
		log.Fatalf("vocabulary: %v", err)
	}

	service, err := app.NewImportService(app.Deps{
		Loader:       tabular.NewLoader(),
		Standardizer: standardize.NewStandardizer(vocab),
	})
	if err != nil {
		log.Fatalf("service: %v", err)
	}

	opts := app.Options{Validate: *doValidate}
	if *lipidCol != "" {
		opts.LipidColumn = parseColumnSpec(*lipidCol)
	}
	if *sampleCols != "" {
		for _, part := range strings.Split(*sampleCols, ",") {
			opts.SampleColumns = append(opts.SampleColumns, parseColumnSpec(strings.TrimSpace(part)))
		}
	}
	if *groupsJSON != "" {
		if err := json.Unmarshal([]byte(*groupsJSON), &opts.GroupMapping); err != nil {
			log.Fatalf("groups: %v", err)
		}
	}

	result, err := service.Import(context.Background(), flag.Arg(0), opts)
	if err != nil {
		log.Fatalf("import: %v", err)
	}

	ds := result.Dataset
	fmt.Printf("imported %s: %d samples, %d groups, %d records\n",
		ds.Source, len(ds.Samples), len(ds.Groups), len(ds.Records))
	for _, g := range ds.Groups {
		fmt.Printf("  group %s: %d samples\n", g.Label, g.Size())
	}
	if unresolved := ds.UnresolvedNames(); len(unresolved) > 0 {
		fmt.Printf("  unresolved names: %s\n", strings.Join(unresolved, ", "))
	}
	if result.Report != nil {
		fmt.Println()
		fmt.Print(result.Report.Markdown())
	}
}

func parseColumnSpec(raw string) resolve.ColumnSpec {
	if i, err := strconv.Atoi(raw); err == nil {
		return resolve.ByIndex(i)
	}
	return resolve.ByName(raw)
}
