package sema

import (
	"sigil/internal/ast"
)

// processDirectives builds the module scope tree and records raw import
// statements for later resolution. Nothing is resolved here: imports may
// reference modules whose declarations appear in files not yet visited.
func (c *checker) processDirectives() {
	fileCount := c.builder.Files.Arena.Len()
	for raw := uint32(1); raw <= fileCount; raw++ {
		fileID := ast.FileID(raw)
		file := c.builder.Files.Get(fileID)
		if file == nil {
			continue
		}
		key := joinModule(c.strings, file.Module)
		scope := c.table.ModuleRoot(key, file.Span)
		c.fileModule[fileID] = key
		c.fileScope[fileID] = scope

		for _, itemID := range file.Items {
			item := c.builder.Items.Get(itemID)
			if item == nil || item.Kind != ast.ItemImport {
				continue
			}
			c.pendingImports = append(c.pendingImports, pendingImport{
				file: fileID,
				item: itemID,
			})
		}
	}
}
