package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/guard"
)

// pageNavigator is the CLI's notion of the current page. The session
// coordinator moves it through the guard.Navigator interface.
type pageNavigator struct {
	mu   sync.Mutex
	path string
	out  io.Writer
}

var _ guard.Navigator = (*pageNavigator)(nil)

func newPageNavigator(start string, out io.Writer) *pageNavigator {
	if start == "" {
		start = "/"
	}
	return &pageNavigator{path: start, out: out}
}

func (n *pageNavigator) Navigate(path string) {
	n.mu.Lock()
	changed := n.path != path
	n.path = path
	n.mu.Unlock()

	if changed && n.out != nil {
		fmt.Fprintf(n.out, "-> %s\n", path)
	}
}

func (n *pageNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}
