//go:build js && wasm

package main

import (
	"encoding/json"
	"strings"
	"syscall/js"

	"romdex/internal/adapter/analyzer"
	"romdex/internal/adapter/indexfile"
	"romdex/internal/adapter/retriever"
	"romdex/internal/adapter/taxonomy"
	"romdex/internal/domain"
	"romdex/internal/usecase"
)

var (
	tax      *taxonomy.Taxonomy
	searchUC *usecase.SearchUseCase
	entries  map[string]domain.GameEntry
	idx      *domain.Index
)

func init() {
	tax = taxonomy.Default()
	searchUC = usecase.NewSearchUseCase(retriever.NewSearcher(retriever.DefaultLimit, retriever.DefaultMinScore), tax)
	entries = make(map[string]domain.GameEntry)
	idx = domain.NewIndex(nil)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("romdexParse", js.FuncOf(parseFilename))
	js.Global().Set("romdexAdd", js.FuncOf(addFile))
	js.Global().Set("romdexLoad", js.FuncOf(loadIndex))
	js.Global().Set("romdexSearch", js.FuncOf(searchIndex))
	js.Global().Set("romdexClear", js.FuncOf(clearIndex))
	js.Global().Set("romdexStats", js.FuncOf(getStats))

	<-c
}

func parseFilename(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: romdexParse(filename)")
	}
	title, tags := analyzer.ParseFilename(args[0].String(), tax)
	return makeResult(map[string]interface{}{
		"title": title,
		"tags":  tags,
	})
}

func addFile(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: romdexAdd(filename, url)")
	}

	filename := args[0].String()
	title, tags := analyzer.ParseFilename(filename, tax)
	entries[filename] = domain.GameEntry{
		Filename: filename,
		URL:      args[1].String(),
		Title:    title,
		Tags:     tags,
	}
	rebuild()

	return makeResult(map[string]interface{}{
		"success":  true,
		"filename": filename,
		"title":    title,
		"tags":     tags,
	})
}

func loadIndex(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: romdexLoad(indexJSON)")
	}

	loaded, err := indexfile.Decode(strings.NewReader(args[0].String()))
	if err != nil {
		return makeError("load failed: " + err.Error())
	}
	entries = make(map[string]domain.GameEntry, loaded.Len())
	for _, e := range loaded.Entries() {
		entries[e.Filename] = e
	}
	idx = loaded

	return makeResult(map[string]interface{}{
		"success": true,
		"files":   idx.Len(),
	})
}

func searchIndex(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: romdexSearch(query)")
	}

	query := args[0].String()
	matches, err := searchUC.Search(idx, query)
	if err != nil {
		return makeError(err.Error())
	}

	return makeResult(map[string]interface{}{
		"results": usecase.Describe(idx, matches),
		"query":   query,
	})
}

func clearIndex(this js.Value, args []js.Value) interface{} {
	entries = make(map[string]domain.GameEntry)
	idx = domain.NewIndex(nil)
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	return makeResult(map[string]interface{}{
		"totalFiles": idx.Len(),
		"files":      idx.Keys(),
	})
}

func rebuild() {
	list := make([]domain.GameEntry, 0, len(entries))
	for _, e := range entries {
		list = append(list, e)
	}
	idx = domain.NewIndex(list)
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
