package importer

import (
	"context"
	"strings"
	"testing"

	"storefront-catalog/internal/domain"
)

type stubProducts struct {
	upserts []struct {
		product domain.Product
		tagIDs  []string
	}
}

func (s *stubProducts) UpsertBySlug(_ context.Context, p domain.Product, tagIDs []string) (*domain.Product, error) {
	s.upserts = append(s.upserts, struct {
		product domain.Product
		tagIDs  []string
	}{p, tagIDs})
	out := p
	out.ID = "prod-" + p.Slug
	return &out, nil
}

type stubCategories struct {
	existing map[string]string // slug -> id
	created  []domain.Category
}

func (s *stubCategories) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	if id, ok := s.existing[slug]; ok {
		return &domain.Category{ID: id, Slug: slug}, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategories) Create(_ context.Context, c domain.Category) (*domain.Category, error) {
	c.ID = "cat-" + c.Slug
	s.existing[c.Slug] = c.ID
	s.created = append(s.created, c)
	return &c, nil
}

type stubTags struct {
	existing map[string]string // label -> id
	created  []domain.Tag
}

func (s *stubTags) GetByLabel(_ context.Context, label string) (*domain.Tag, error) {
	if id, ok := s.existing[label]; ok {
		return &domain.Tag{ID: id, Label: label}, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubTags) Create(_ context.Context, t domain.Tag) (*domain.Tag, error) {
	t.ID = "tag-" + domain.Slugify(t.Label)
	s.existing[t.Label] = t.ID
	s.created = append(s.created, t)
	return &t, nil
}

func newStubs() (*stubProducts, *stubCategories, *stubTags) {
	return &stubProducts{},
		&stubCategories{existing: map[string]string{}},
		&stubTags{existing: map[string]string{}}
}

func TestRun_ImportsRowsAndResolvesReferences(t *testing.T) {
	csvData := `title,slug,description,unit_price,inventory,category,tags
Wireless Earbuds,wireless-earbuds,Noise cancelling earbuds,99.99,25,electronics,Eco-Friendly|Best Seller
Bluetooth Speaker,,Portable speaker,49.99,40,electronics,Eco-Friendly
`
	products, categories, tags := newStubs()
	categories.existing["electronics"] = "cat-electronics"

	imp := NewCSVImporter(strings.NewReader(csvData), products, categories, tags)
	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 imported, got %d", count)
	}
	if len(products.upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(products.upserts))
	}

	first := products.upserts[0]
	if first.product.CategoryID != "cat-electronics" {
		t.Errorf("category not resolved: %q", first.product.CategoryID)
	}
	if len(first.tagIDs) != 2 {
		t.Errorf("expected 2 tag ids, got %v", first.tagIDs)
	}
	if !first.product.IsActive {
		t.Errorf("imported products should be active")
	}

	// Slug column empty: derived from the title.
	second := products.upserts[1]
	if second.product.Slug != "bluetooth-speaker" {
		t.Errorf("expected derived slug, got %q", second.product.Slug)
	}

	// Both tags were missing and created once; the second row reuses the
	// cached Eco-Friendly id.
	if len(tags.created) != 2 {
		t.Errorf("expected 2 tags created, got %v", tags.created)
	}
	if len(categories.created) != 0 {
		t.Errorf("existing category should not be recreated: %v", categories.created)
	}
}

func TestRun_CreatesMissingCategory(t *testing.T) {
	csvData := `title,slug,description,unit_price,inventory,category,tags
Standing Desk,standing-desk,Adjustable desk,349.00,8,home-office,
`
	products, categories, tags := newStubs()

	imp := NewCSVImporter(strings.NewReader(csvData), products, categories, tags)
	if _, err := imp.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(categories.created) != 1 {
		t.Fatalf("expected category created, got %v", categories.created)
	}
	if categories.created[0].Title != "Home Office" {
		t.Errorf("expected title derived from slug, got %q", categories.created[0].Title)
	}
	if got := products.upserts[0].tagIDs; len(got) != 0 {
		t.Errorf("expected no tags, got %v", got)
	}
}

func TestRun_RejectsBadRows(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"missing title", `,x,desc,9.99,1,electronics,`},
		{"price below minimum", `Cheap Thing,cheap-thing,desc,0.50,1,electronics,`},
		{"unparseable price", `Thing,thing,desc,abc,1,electronics,`},
		{"negative inventory", `Thing,thing,desc,9.99,-1,electronics,`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			csvData := "title,slug,description,unit_price,inventory,category,tags\n" + tc.row + "\n"
			products, categories, tags := newStubs()
			categories.existing["electronics"] = "cat-electronics"

			imp := NewCSVImporter(strings.NewReader(csvData), products, categories, tags)
			count, err := imp.Run(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
			if count != 0 {
				t.Errorf("expected nothing imported, got %d", count)
			}
			if len(products.upserts) != 0 {
				t.Errorf("unexpected upserts: %v", products.upserts)
			}
		})
	}
}
