package app

import (
	"context"

	"github.com/simplibiz/sbdoctor/internal/ports/secondary"
)

// Ensure the mocks implement the interface
var (
	_ secondary.Backend = (*mockBackend)(nil)
	_ secondary.Backend = (*applyingBackend)(nil)
)

// mockBackend implements secondary.Backend for testing. Query results are
// keyed by the exact statement text, so tests exercise the verbatim probe
// queries.
type mockBackend struct {
	rows    map[string][]secondary.Row
	sqlErrs map[string]error

	buckets   []secondary.BucketInfo
	listErr   error
	createErr error

	// Call tracking for purity and ordering assertions
	execLog     []string
	listCalls   int
	createCalls []createCall
}

type createCall struct {
	name   string
	public bool
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		rows:    make(map[string][]secondary.Row),
		sqlErrs: make(map[string]error),
	}
}

func (m *mockBackend) ExecSQL(ctx context.Context, statement string) ([]secondary.Row, error) {
	m.execLog = append(m.execLog, statement)
	if err := m.sqlErrs[statement]; err != nil {
		return nil, err
	}
	return m.rows[statement], nil
}

func (m *mockBackend) ListBuckets(ctx context.Context) ([]secondary.BucketInfo, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.buckets, nil
}

func (m *mockBackend) CreateBucket(ctx context.Context, name string, public bool) error {
	m.createCalls = append(m.createCalls, createCall{name: name, public: public})
	return m.createErr
}

// cleanBackend returns a mock configured as a fully healthy backend: no
// legacy column, RLS on, INSERT policy present, bucket present, and storage
// policies covering INSERT and SELECT.
func cleanBackend() *mockBackend {
	m := newMockBackend()
	m.rows[productColumnsQuery] = []secondary.Row{
		{"column_name": "id", "is_nullable": "NO"},
		{"column_name": "name", "is_nullable": "NO"},
		{"column_name": "user_id", "is_nullable": "NO"},
	}
	m.rows[rowSecurityQuery] = []secondary.Row{
		{"relname": "products", "relrowsecurity": true},
	}
	m.rows[productInsertPoliciesQuery] = []secondary.Row{
		{"policyname": "Enable insert for authenticated users", "cmd": "INSERT"},
	}
	m.rows[storagePoliciesQuery] = []secondary.Row{
		{"name": "Allow authenticated user uploads", "definition": "FOR INSERT TO authenticated WITH CHECK (bucket_id = 'product-images')"},
		{"name": "Allow public read access", "definition": "FOR SELECT TO public USING (bucket_id = 'product-images')"},
	}
	m.buckets = []secondary.BucketInfo{
		{ID: "product-images", Name: "product-images", Public: true},
	}
	return m
}

// brokenBackend returns a mock where every probe finds its issue: legacy
// column present, RLS off, no policies anywhere, no bucket.
func brokenBackend() *mockBackend {
	m := newMockBackend()
	m.rows[productColumnsQuery] = []secondary.Row{
		{"column_name": "id", "is_nullable": "NO"},
		{"column_name": "category_id", "is_nullable": "YES"},
	}
	m.rows[rowSecurityQuery] = []secondary.Row{
		{"relname": "products", "relrowsecurity": false},
	}
	return m
}

// applyingBackend wraps mockBackend so that executed remedies take effect on
// the mock state, letting tests verify a fix pass leaves nothing behind.
type applyingBackend struct {
	*mockBackend
}

func (a *applyingBackend) ExecSQL(ctx context.Context, statement string) ([]secondary.Row, error) {
	switch statement {
	case dropCategoryColumnSQL:
		var kept []secondary.Row
		for _, row := range a.rows[productColumnsQuery] {
			if row["column_name"] != "category_id" {
				kept = append(kept, row)
			}
		}
		a.rows[productColumnsQuery] = kept
		return nil, nil
	case enableRowSecuritySQL:
		a.rows[rowSecurityQuery] = []secondary.Row{
			{"relname": "products", "relrowsecurity": true},
		}
		return nil, nil
	case productsInsertPolicySQL:
		a.rows[productInsertPoliciesQuery] = append(a.rows[productInsertPoliciesQuery],
			secondary.Row{"policyname": "Enable insert for authenticated users", "cmd": "INSERT"})
		return nil, nil
	case storageInsertPolicySQL:
		a.rows[storagePoliciesQuery] = append(a.rows[storagePoliciesQuery],
			secondary.Row{"name": "Allow authenticated user uploads", "definition": "FOR INSERT TO authenticated WITH CHECK (bucket_id = 'product-images')"})
		return nil, nil
	case storageSelectPolicySQL:
		a.rows[storagePoliciesQuery] = append(a.rows[storagePoliciesQuery],
			secondary.Row{"name": "Allow public read access", "definition": "FOR SELECT TO public USING (bucket_id = 'product-images')"})
		return nil, nil
	}
	return a.mockBackend.ExecSQL(ctx, statement)
}

func (a *applyingBackend) CreateBucket(ctx context.Context, name string, public bool) error {
	a.createCalls = append(a.createCalls, createCall{name: name, public: public})
	a.buckets = append(a.buckets, secondary.BucketInfo{ID: name, Name: name, Public: public})
	return nil
}
