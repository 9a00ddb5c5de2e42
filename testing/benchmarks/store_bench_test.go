package benchmarks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/zoobzio/formz"
	"github.com/zoobzio/formz/table"
)

type benchForm struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func benchTree(width int) map[string]any {
	tree := make(map[string]any, width)
	for i := 0; i < width; i++ {
		tree[fmt.Sprintf("field%d", i)] = map[string]any{
			"items": []any{map[string]any{"sku": i}},
		}
	}
	return tree
}

func BenchmarkDeepSet_Wide(b *testing.B) {
	tree := benchTree(100)
	path := formz.Path{"field50", "items", 0, "sku"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = formz.DeepSet(tree, path, i)
	}
}

func BenchmarkDeepGet(b *testing.B) {
	tree := benchTree(100)
	path := formz.Path{"field50", "items", 0, "sku"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = formz.DeepGet(tree, path)
	}
}

func BenchmarkStore_ChangeAndProcess(b *testing.B) {
	store := formz.New(formz.StructValidator[benchForm]()).SyncMode()
	ctx := context.Background()
	if err := store.Start(ctx); err != nil {
		b.Fatalf("Start() error = %v", err)
	}
	defer store.Close()
	store.Initialize(map[string]any{"name": "", "email": ""})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Change(formz.Path{"email"}, fmt.Sprintf("user%d@example.com", i))
		store.Process(ctx)
	}
}

func BenchmarkStore_ChangeNoValidator(b *testing.B) {
	store := formz.New(nil)
	store.Initialize(benchTree(20))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Change(formz.Path{"field10", "items", 0, "sku"}, i)
	}
}

func BenchmarkTable_Resolve(b *testing.B) {
	opts := make([]table.EnumOption, 50)
	for i := range opts {
		opts[i] = table.EnumOption{Label: fmt.Sprintf("L%d", i), Value: i}
	}
	cols := []table.Column{
		{Key: "name"},
		{Key: "kind", Type: table.Enum(table.StaticOptions(opts...), table.EnumConfig{Filterable: true})},
		{Key: "created", Type: table.Date},
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := table.Resolve(ctx, cols); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTable_Search(b *testing.B) {
	tbl := table.New(&table.Schema{Columns: []table.Column{
		{Key: "name"},
		{Key: "created", Type: table.Date},
	}}, table.Options{})
	if err := tbl.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	defer tbl.Close()
	for tbl.Columns() == nil {
		time.Sleep(time.Millisecond)
	}

	rows := make([]any, 1000)
	for i := range rows {
		rows[i] = map[string]any{"name": fmt.Sprintf("user %d", i), "created": "2024-03-05"}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tbl.Search(rows, "user 99")
	}
}
