package transform

import (
	"fmt"
	"strings"

	"go.trai.ch/elmstronaut/internal/core/domain"
)

// moduleTemplate turns compiler output into an ES module whose default export
// is the module's entry in the global Elm namespace.
const moduleTemplate = `let Component;
(function() {
  %[1]s
  globalThis.Elm.%[2]s.__name = '%[2]s';
  Component = globalThis.Elm.%[2]s;
})();
export default Component;`

// WrapModule wraps compiled JavaScript into an ES module exporting name.
// Only the first "(this)" of the compiler output is rewritten.
func WrapModule(js string, name domain.ModuleName) string {
	return fmt.Sprintf(moduleTemplate, strings.Replace(js, "(this)", "(globalThis)", 1), name)
}
