package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationDirValidates(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestInitSchemaCoversAllTables(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}

	var initSQL string
	for _, e := range entries {
		if strings.Contains(e.Name(), "init_schema") {
			b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
			if err != nil {
				t.Fatalf("read init schema: %v", err)
			}
			initSQL = string(b)
		}
	}
	if initSQL == "" {
		t.Fatal("init_schema migration missing")
	}

	tables := []string{
		"factories", "product_nodes", "params_catalog", "params_product_node",
		"accessories", "customer_models", "customer_model_accessories",
		"supplier_models", "measurements", "links", "compare_tables",
		"compare_table_lines", "contracts", "contract_lines", "tolerances",
		"test_methods", "tech_task",
	}
	for _, table := range tables {
		if !strings.Contains(initSQL, "CREATE TABLE "+table+" (") {
			t.Fatalf("init schema missing table %s", table)
		}
	}

	if !strings.Contains(initSQL, "tech_task_contract_version_key") {
		t.Fatal("tech_task version uniqueness constraint missing")
	}
}
