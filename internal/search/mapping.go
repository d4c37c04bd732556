package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/ru"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for catalog documents.
//
// Text fields use the Russian analyzer so inflected forms ("Онегина", "онегину")
// meet at one stem. Genres are folded before indexing and kept as single keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = ru.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = ru.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = ru.AnalyzerName
	authorFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// Description and full text are searchable but not stored.
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = ru.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = ru.AnalyzerName
	contentFieldMapping.Store = false
	contentFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("content", contentFieldMapping)

	genresFieldMapping := bleve.NewTextFieldMapping()
	genresFieldMapping.Analyzer = keyword.Name
	genresFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("genres", genresFieldMapping)

	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("publication_year", yearFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
