package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docflow/internal/runtimeconfig"
)

var (
	// ErrNoCategories indicates the catalog configuration declares no categories.
	ErrNoCategories = errors.New("catalog: at least one category required")
	// ErrCategoryKeyRequired indicates a category is missing its key.
	ErrCategoryKeyRequired = errors.New("catalog: category key required")
	// ErrDuplicateCategory indicates duplicate category keys were declared.
	ErrDuplicateCategory = errors.New("catalog: duplicate category")
	// ErrNoDocTypes indicates a category declares no document types.
	ErrNoDocTypes = errors.New("catalog: category requires at least one document type")
	// ErrDocTypeKeyRequired indicates a document type is missing its key.
	ErrDocTypeKeyRequired = errors.New("catalog: document type key required")
	// ErrDuplicateDocType indicates duplicate document type keys within a category.
	ErrDuplicateDocType = errors.New("catalog: duplicate document type")
	// ErrUnknownCategory indicates a lookup for a category the catalog does not define.
	ErrUnknownCategory = errors.New("catalog: unknown category")
	// ErrUnknownDocType indicates a lookup for a document type the category does not define.
	ErrUnknownDocType = errors.New("catalog: unknown document type")
)

// DocType describes a required document artifact within a category.
type DocType struct {
	Key   string
	Title string
}

// Category groups the document types required for one area of review.
type Category struct {
	Key   string
	Title string

	docTypes map[string]DocType
	ordered  []DocType
}

// DocTypes returns the category's document types in declaration order.
func (c *Category) DocTypes() []DocType {
	out := make([]DocType, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// DocType resolves a document type by key.
func (c *Category) DocType(key string) (DocType, error) {
	docType, ok := c.docTypes[normalizeKey(key)]
	if !ok {
		return DocType{}, fmt.Errorf("%w: %s/%s", ErrUnknownDocType, c.Key, key)
	}
	return docType, nil
}

// Catalog is the immutable set of categories loaded at startup. Lookups are
// read-only; there is no mutation path after Compile returns.
type Catalog struct {
	categories map[string]*Category
	ordered    []*Category
}

// Compile converts catalog configuration into a validated, immutable catalog.
func Compile(cfg runtimeconfig.CatalogConfig) (*Catalog, error) {
	if len(cfg.Categories) == 0 {
		return nil, ErrNoCategories
	}

	catalog := &Catalog{
		categories: make(map[string]*Category, len(cfg.Categories)),
		ordered:    make([]*Category, 0, len(cfg.Categories)),
	}

	for idx, categoryCfg := range cfg.Categories {
		key := normalizeKey(categoryCfg.Key)
		if key == "" {
			return nil, fmt.Errorf("%w at index %d", ErrCategoryKeyRequired, idx)
		}
		if _, exists := catalog.categories[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, key)
		}
		if len(categoryCfg.DocTypes) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoDocTypes, key)
		}

		category := &Category{
			Key:      key,
			Title:    strings.TrimSpace(categoryCfg.Title),
			docTypes: make(map[string]DocType, len(categoryCfg.DocTypes)),
			ordered:  make([]DocType, 0, len(categoryCfg.DocTypes)),
		}

		for docIdx, docCfg := range categoryCfg.DocTypes {
			docKey := normalizeKey(docCfg.Key)
			if docKey == "" {
				return nil, fmt.Errorf("%w: %s at index %d", ErrDocTypeKeyRequired, key, docIdx)
			}
			if _, exists := category.docTypes[docKey]; exists {
				return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateDocType, key, docKey)
			}
			docType := DocType{Key: docKey, Title: strings.TrimSpace(docCfg.Title)}
			category.docTypes[docKey] = docType
			category.ordered = append(category.ordered, docType)
		}

		catalog.categories[key] = category
		catalog.ordered = append(catalog.ordered, category)
	}

	return catalog, nil
}

// Categories returns every category in declaration order.
func (c *Catalog) Categories() []*Category {
	out := make([]*Category, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Category resolves a category by key.
func (c *Catalog) Category(key string) (*Category, error) {
	category, ok := c.categories[normalizeKey(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, key)
	}
	return category, nil
}

// Resolve validates a (category, docType) pair and returns both entries.
// Every document creation goes through this check; the pairing is immutable
// once the document exists.
func (c *Catalog) Resolve(categoryKey, docTypeKey string) (*Category, DocType, error) {
	category, err := c.Category(categoryKey)
	if err != nil {
		return nil, DocType{}, err
	}
	docType, err := category.DocType(docTypeKey)
	if err != nil {
		return nil, DocType{}, err
	}
	return category, docType, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
