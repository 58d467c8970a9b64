package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/simplibiz/sbdoctor/internal/ports/primary"
	"github.com/simplibiz/sbdoctor/internal/ports/secondary"
)

// productImagesBucket is the storage bucket the application uploads product
// images into.
const productImagesBucket = "product-images"

// Probe queries. All reads; check mode issues nothing else.
const (
	productColumnsQuery = `SELECT column_name, is_nullable
              FROM information_schema.columns
              WHERE table_name = 'products';`

	rowSecurityQuery = `SELECT relname, relrowsecurity
              FROM pg_class
              WHERE relname = 'products';`

	productInsertPoliciesQuery = `SELECT policyname, cmd
                  FROM pg_policies
                  WHERE tablename = 'products' AND cmd = 'INSERT';`

	storagePoliciesQuery = `SELECT name, definition
                  FROM storage.policies
                  WHERE definition::text LIKE '%product-images%';`
)

// Remedy statements, emitted verbatim so a check-mode review corresponds
// exactly to what fix applies.
const (
	dropCategoryColumnSQL = `ALTER TABLE products DROP CONSTRAINT IF EXISTS products_category_id_fkey;
ALTER TABLE products DROP COLUMN IF EXISTS category_id;`

	enableRowSecuritySQL = `ALTER TABLE public.products ENABLE ROW LEVEL SECURITY;`

	productsInsertPolicySQL = `CREATE POLICY "Enable insert for authenticated users"
ON public.products
FOR INSERT
TO authenticated
WITH CHECK (auth.uid() = user_id);`

	storageInsertPolicySQL = `CREATE POLICY "Allow authenticated user uploads"
ON storage.objects FOR INSERT TO authenticated
WITH CHECK (bucket_id = 'product-images' AND auth.uid()::text = (storage.foldername(name))[1]);`

	storageSelectPolicySQL = `CREATE POLICY "Allow public read access"
ON storage.objects FOR SELECT
TO public
USING (bucket_id = 'product-images');`
)

// probe is one named, independent audit over the backend.
type probe struct {
	name string
	// fail completes "Failed to <fail>: <err>" when the probe's own query
	// errors out.
	fail string
	run  func(ctx context.Context) ([]primary.Issue, error)
}

// AuditServiceImpl implements the AuditService interface.
type AuditServiceImpl struct {
	backend secondary.Backend
	probes  []probe
}

var _ primary.AuditService = (*AuditServiceImpl)(nil)

// NewAuditService creates a new AuditService with the injected backend.
func NewAuditService(backend secondary.Backend) *AuditServiceImpl {
	s := &AuditServiceImpl{backend: backend}
	// Order is fixed so output is reproducible across runs.
	s.probes = []probe{
		{"Database schema", "check products table structure", s.probeSchema},
		{"Row Level Security", "check RLS status", s.probeRowSecurityEnabled},
		{"Products INSERT policy", "check products table policies", s.probeProductsInsertPolicy},
		{"Storage bucket", "check storage buckets", s.probeBucketExists},
		{"Storage INSERT policy", "check storage policies", s.probeBucketInsertPolicy},
		{"Storage SELECT policy", "check storage policies", s.probeBucketSelectPolicy},
	}
	return s
}

// RunAudit executes every probe in order. A failing probe yields exactly one
// error-kind issue and never prevents later probes from running.
func (s *AuditServiceImpl) RunAudit(ctx context.Context) *primary.Report {
	report := &primary.Report{RunID: uuid.NewString()}

	for _, p := range s.probes {
		issues, err := p.run(ctx)
		if err != nil {
			issues = []primary.Issue{{
				Kind:        primary.IssueError,
				Description: fmt.Sprintf("Failed to %s: %v", p.fail, err),
			}}
			report.ProbeFailed = true
		}
		report.Probes = append(report.Probes, primary.ProbeResult{Probe: p.name, Issues: issues})
		report.Issues = append(report.Issues, issues...)
	}

	return report
}

// probeSchema verifies the products table no longer carries the legacy
// category_id column. The application migrated off the foreign-keyed
// category model; a leftover column and constraint block inserts.
func (s *AuditServiceImpl) probeSchema(ctx context.Context) ([]primary.Issue, error) {
	rows, err := s.backend.ExecSQL(ctx, productColumnsQuery)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row["column_name"] == "category_id" {
			return []primary.Issue{{
				Kind:        primary.IssueSchema,
				Description: "The category_id column still exists in the products table",
				Remedy:      primary.SQLRemedy(dropCategoryColumnSQL),
			}}, nil
		}
	}
	return nil, nil
}

// probeRowSecurityEnabled verifies RLS is switched on for the products table.
func (s *AuditServiceImpl) probeRowSecurityEnabled(ctx context.Context) ([]primary.Issue, error) {
	rows, err := s.backend.ExecSQL(ctx, rowSecurityQuery)
	if err != nil {
		return nil, err
	}

	enabled := false
	if len(rows) > 0 {
		enabled, _ = rows[0]["relrowsecurity"].(bool)
	}
	if !enabled {
		return []primary.Issue{{
			Kind:        primary.IssueRLS,
			Description: "Row Level Security is not enabled on the products table",
			Remedy:      primary.SQLRemedy(enableRowSecuritySQL),
		}}, nil
	}
	return nil, nil
}

// probeProductsInsertPolicy verifies at least one INSERT policy exists on the
// products table.
func (s *AuditServiceImpl) probeProductsInsertPolicy(ctx context.Context) ([]primary.Issue, error) {
	rows, err := s.backend.ExecSQL(ctx, productInsertPoliciesQuery)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return []primary.Issue{{
			Kind:        primary.IssueRLS,
			Description: "No INSERT policy exists for the products table",
			Remedy:      primary.SQLRemedy(productsInsertPolicySQL),
		}}, nil
	}
	return nil, nil
}

// probeBucketExists verifies the product-images bucket is present in the
// storage registry. Creation goes through the storage API, not SQL, hence
// the symbolic remedy.
func (s *AuditServiceImpl) probeBucketExists(ctx context.Context) ([]primary.Issue, error) {
	buckets, err := s.backend.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}

	for _, b := range buckets {
		if b.Name == productImagesBucket {
			return nil, nil
		}
	}
	return []primary.Issue{{
		Kind:        primary.IssueStorage,
		Description: "The product-images bucket does not exist",
		Remedy:      primary.ActionRemedy(primary.ActionCreateBucket),
	}}, nil
}

// probeBucketInsertPolicy verifies a storage policy mentioning product-images
// grants INSERT.
func (s *AuditServiceImpl) probeBucketInsertPolicy(ctx context.Context) ([]primary.Issue, error) {
	found, err := s.storagePolicyMentions(ctx, "INSERT")
	if err != nil {
		return nil, err
	}
	if !found {
		return []primary.Issue{{
			Kind:        primary.IssueStorage,
			Description: "No INSERT policy for product-images bucket",
			Remedy:      primary.SQLRemedy(storageInsertPolicySQL),
		}}, nil
	}
	return nil, nil
}

// probeBucketSelectPolicy verifies a storage policy mentioning product-images
// grants SELECT.
func (s *AuditServiceImpl) probeBucketSelectPolicy(ctx context.Context) ([]primary.Issue, error) {
	found, err := s.storagePolicyMentions(ctx, "SELECT")
	if err != nil {
		return nil, err
	}
	if !found {
		return []primary.Issue{{
			Kind:        primary.IssueStorage,
			Description: "No SELECT policy for product-images bucket",
			Remedy:      primary.SQLRemedy(storageSelectPolicySQL),
		}}, nil
	}
	return nil, nil
}

// storagePolicyMentions reports whether any storage policy whose definition
// references product-images also contains the given command word. Matching
// is on the raw definition text, so a policy that merely mentions the word
// counts.
func (s *AuditServiceImpl) storagePolicyMentions(ctx context.Context, command string) (bool, error) {
	rows, err := s.backend.ExecSQL(ctx, storagePoliciesQuery)
	if err != nil {
		return false, err
	}

	for _, row := range rows {
		definition, _ := row["definition"].(string)
		if strings.Contains(definition, command) {
			return true, nil
		}
	}
	return false, nil
}
