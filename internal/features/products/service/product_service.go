package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"support-agent/internal/core/logger"
	"support-agent/internal/features/products/domain"
	"support-agent/internal/features/products/ports"

	"go.uber.org/zap"
)

var (
	// ErrProductNotFound is returned when no product matches the given title.
	ErrProductNotFound = errors.New("product not found")
)

// Relevance weights. A token match scores per field it appears in; multi-token
// queries are conjunctive and earn a bonus when every token matched.
const (
	titleWeight       = 15
	productTypeWeight = 10
	tagsWeight        = 10
	descriptionWeight = 5
	allTokensBonus    = 30
	inStockBonus      = 2
)

// candidateMultiplier oversizes per-token fetches so scoring has enough
// candidates to rank before truncation.
const candidateMultiplier = 3

// defaultSearchLimit is the result count when the caller does not specify one.
const defaultSearchLimit = 10

// stopWords are query fillers stripped before searching.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {}, "to": {},
	"in": {}, "on": {}, "do": {}, "you": {}, "have": {}, "any": {},
	"some": {}, "your": {}, "i": {}, "want": {}, "looking": {},
}

// irregularPlurals maps words the suffix rules would mangle.
var irregularPlurals = map[string]string{
	"women":    "women",
	"men":      "men",
	"children": "child",
	"skis":     "ski",
	"goggles":  "goggles",
}

// categorySuggestions offers alternative search terms per recognized category.
var categorySuggestions = map[string][]string{
	"women":     {"women's apparel", "ladies", "female", "women", "girls"},
	"men":       {"men's apparel", "mens", "male", "men", "boys"},
	"snowboard": {"snowboards", "snow gear", "winter sports", "boards", "snowboarding"},
	"ski":       {"skis", "skiing", "ski gear"},
}

// ProductService owns catalog search and product detail lookups.
type ProductService struct {
	searcher ports.ProductSearcher
	provider ports.ProductProvider
}

// NewProductService creates a new ProductService.
func NewProductService(searcher ports.ProductSearcher, provider ports.ProductProvider) *ProductService {
	return &ProductService{
		searcher: searcher,
		provider: provider,
	}
}

// SearchOptions tune a catalog search.
type SearchOptions struct {
	// Limit caps the result count; defaults to 10.
	Limit int
	// IncludeOutOfStock keeps products with no inventory in the results.
	IncludeOutOfStock bool
}

// SearchResult is the outcome of a catalog search.
type SearchResult struct {
	// Found reports whether any relevant product matched.
	Found bool `json:"found"`
	// Message explains an empty result, when applicable.
	Message string `json:"message,omitempty"`
	// Suggestions are alternative terms to try after an empty result.
	Suggestions []string `json:"suggestions,omitempty"`
	// SearchTerm echoes the query.
	SearchTerm string `json:"searchTerm,omitempty"`
	// ResultCount is the number of products returned.
	ResultCount int `json:"resultCount,omitempty"`
	// Products are the ranked matches, most relevant first.
	Products []domain.Product `json:"products,omitempty"`
}

// Search tokenizes the term, fetches candidates for every token in parallel,
// deduplicates, scores, ranks and truncates. A failed token fetch contributes
// zero candidates; the search survives partial backend failure.
func (s *ProductService) Search(ctx context.Context, searchTerm string, opts SearchOptions) (*SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	tokens := Tokenize(searchTerm)
	if len(tokens) == 0 {
		return &SearchResult{
			Found:   false,
			Message: fmt.Sprintf("No products found matching %q. Try different keywords or browse categories.", searchTerm),
		}, nil
	}

	candidates := s.fetchCandidates(ctx, tokens, limit*candidateMultiplier)
	ranked := rankProducts(deduplicate(candidates), tokens)

	if !opts.IncludeOutOfStock {
		filtered := ranked[:0]
		for _, p := range ranked {
			if p.InStock() {
				filtered = append(filtered, p)
			}
		}
		ranked = filtered
	}

	if len(ranked) == 0 {
		return &SearchResult{
			Found:       false,
			Message:     fmt.Sprintf("No products found matching %q. Try different keywords or browse categories.", searchTerm),
			Suggestions: suggestions(tokens),
		}, nil
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return &SearchResult{
		Found:       true,
		SearchTerm:  searchTerm,
		ResultCount: len(ranked),
		Products:    ranked,
	}, nil
}

// fetchCandidates fans out one backend query per token and flattens the
// results in token order, so deduplication is deterministic.
func (s *ProductService) fetchCandidates(ctx context.Context, tokens []string, perToken int) []domain.Product {
	results := make([][]domain.Product, len(tokens))

	var wg sync.WaitGroup
	for i, token := range tokens {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			products, err := s.searcher.SearchByToken(ctx, token, perToken)
			if err != nil {
				logger.Get().Warn("Token search failed",
					zap.String("token", token),
					zap.Error(err),
				)
				return
			}
			results[i] = products
		}(i, token)
	}
	wg.Wait()

	var all []domain.Product
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// GetDetails fetches the full detail view of a product by approximate title.
func (s *ProductService) GetDetails(ctx context.Context, title string) (*domain.ProductDetails, error) {
	details, err := s.provider.GetProductByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, ErrProductNotFound
	}
	return details, nil
}

// Tokenize splits a search term into searchable tokens: lowercase, strip
// possessives, drop stop words and single characters, singularize, dedupe.
func Tokenize(searchTerm string) []string {
	normalized := strings.ToLower(searchTerm)
	normalized = strings.ReplaceAll(normalized, "'s", "")
	normalized = strings.ReplaceAll(normalized, "'", "")

	seen := make(map[string]struct{})
	var tokens []string
	for _, token := range strings.Fields(normalized) {
		if len(token) <= 1 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		token = singularize(token)
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

// singularize converts common plural forms to singular so that "snowboards"
// matches products titled "snowboard".
func singularize(word string) string {
	if singular, ok := irregularPlurals[word]; ok {
		return singular
	}

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case len(word) > 3 && (strings.HasSuffix(word, "shes") || strings.HasSuffix(word, "ches") ||
		strings.HasSuffix(word, "xes") || strings.HasSuffix(word, "ses")):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 3:
		return word[:len(word)-1]
	}
	return word
}

// deduplicate keeps the first occurrence of each product ID.
func deduplicate(products []domain.Product) []domain.Product {
	seen := make(map[string]struct{}, len(products))
	out := products[:0]
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// rankProducts scores each candidate against the tokens, drops irrelevant
// ones, and sorts by score descending. The sort is stable so ties keep their
// discovery order.
func rankProducts(products []domain.Product, tokens []string) []domain.Product {
	type scored struct {
		product domain.Product
		score   int
	}

	ranked := make([]scored, 0, len(products))
	for _, p := range products {
		if score := scoreProduct(&p, tokens); score > 0 {
			ranked = append(ranked, scored{product: p, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]domain.Product, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.product)
	}
	return out
}

// scoreProduct computes the relevance of one product. Multi-token queries are
// conjunctive: a product missing any token scores zero.
func scoreProduct(p *domain.Product, tokens []string) int {
	title := strings.ToLower(p.Title)
	description := strings.ToLower(p.Description)
	productType := strings.ToLower(p.ProductType)
	tags := strings.ToLower(strings.Join(p.Tags, " "))

	score := 0
	matched := 0
	for _, token := range tokens {
		found := false
		if strings.Contains(title, token) {
			score += titleWeight
			found = true
		}
		if strings.Contains(productType, token) {
			score += productTypeWeight
			found = true
		}
		if strings.Contains(tags, token) {
			score += tagsWeight
			found = true
		}
		if strings.Contains(description, token) {
			score += descriptionWeight
			found = true
		}
		if found {
			matched++
		}
	}

	if len(tokens) > 1 {
		if matched < len(tokens) {
			return 0
		}
		score += allTokensBonus
	}

	if p.InStock() {
		score += inStockBonus
	}

	return score
}

// suggestions proposes alternative search terms after an empty result.
func suggestions(tokens []string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(s string) {
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if len(tokens) > 1 {
		for _, t := range tokens {
			if len(t) > 2 {
				add(t)
			}
		}
	}
	for _, t := range tokens {
		for _, s := range categorySuggestions[t] {
			add(s)
		}
	}

	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
