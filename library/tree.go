package library

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TreeNode is one directory in the tree endpoint's response.
type TreeNode struct {
	Name string     `json:"name"`
	Dirs []TreeNode `json:"dirs"`
}

// Tree lists the subdirectories of every root, recursively, skipping
// dot-prefixed names. Children are in lexicographic order; roots appear
// in registration order.
func (l *Library) Tree() []TreeNode {
	nodes := make([]TreeNode, 0, len(l.roots))
	for _, root := range l.roots {
		nodes = append(nodes, walkTree(root.Path, root.Name))
	}
	return nodes
}

func walkTree(dir, name string) TreeNode {
	node := TreeNode{Name: EncodeName(name), Dirs: []TreeNode{}}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return node
	}
	// os.ReadDir returns entries sorted by name.
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		if !isDir(entry, child) {
			continue
		}
		node.Dirs = append(node.Dirs, walkTree(child, entry.Name()))
	}
	return node
}

// isDir follows symlinks, so a linked directory shows up in the tree.
func isDir(entry fs.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
