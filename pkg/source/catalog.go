package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/oakwood-commons/cellgrid/pkg/loader"
)

// Catalog maps table ids onto a directory of data files. A table id is
// [project.]dataset.table, naming <Root>/<dataset>/<table>.<ext>. Workbook
// tables may add a sheet: dataset.book.Sheet1.
type Catalog struct {
	Root    string
	Project string
}

// TableRef is a resolved table id.
type TableRef struct {
	ID    string // dataset.table[.sheet], without project
	Path  string
	Sheet string
}

// Resolve maps id to a file. projectID, when non-empty, must agree with the
// catalog's project; so must a project prefix in id.
func (c Catalog) Resolve(id, projectID string) (TableRef, error) {
	if err := c.checkProject(projectID); err != nil {
		return TableRef{}, err
	}
	id = strings.Trim(strings.TrimSpace(id), "`")
	parts := strings.Split(id, ".")
	for _, p := range parts {
		if p == "" {
			return TableRef{}, fmt.Errorf("%w: %q", ErrInvalidTableID, id)
		}
	}

	switch len(parts) {
	case 2:
		return c.lookup(id, parts[0], parts[1], "")
	case 3:
		// dataset.book.sheet wins over project.dataset.table when the
		// workbook exists.
		if ref, err := c.lookup(id, parts[0], parts[1], parts[2]); err == nil {
			return ref, nil
		}
		if err := c.checkProject(parts[0]); err != nil {
			return TableRef{}, err
		}
		return c.lookup(id, parts[1], parts[2], "")
	case 4:
		if err := c.checkProject(parts[0]); err != nil {
			return TableRef{}, err
		}
		return c.lookup(id, parts[1], parts[2], parts[3])
	default:
		return TableRef{}, fmt.Errorf("%w: %q (expected [project.]dataset.table)", ErrInvalidTableID, id)
	}
}

func (c Catalog) checkProject(project string) error {
	if project == "" || c.Project == "" || project == c.Project {
		return nil
	}
	return fmt.Errorf("%w: %q is not %q", ErrProjectMismatch, project, c.Project)
}

func (c Catalog) lookup(id, dataset, table, sheet string) (TableRef, error) {
	exts := loader.Extensions
	if sheet != "" {
		exts = []string{".xlsx"}
	}
	for _, path := range c.candidates(dataset, table, exts) {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if sheet != "" {
			sheets, err := loader.Sheets(path)
			if err != nil {
				return TableRef{}, err
			}
			if !slices.Contains(sheets, sheet) {
				continue
			}
		}
		ref := TableRef{ID: dataset + "." + table, Path: path, Sheet: sheet}
		if sheet != "" {
			ref.ID += "." + sheet
		}
		return ref, nil
	}
	return TableRef{}, fmt.Errorf("%w: %s", ErrTableNotFound, id)
}

// candidates returns the files of dataset named table with one of exts, in
// the order of exts. Extensions match case-insensitively, as in Tables.
func (c Catalog) candidates(dataset, table string, exts []string) []string {
	dir := filepath.Join(c.Root, dataset)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	byExt := map[string]string{}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if strings.TrimSuffix(e.Name(), ext) != table {
			continue
		}
		ext = strings.ToLower(ext)
		if _, ok := byExt[ext]; !ok {
			byExt[ext] = filepath.Join(dir, e.Name())
		}
	}
	var paths []string
	for _, ext := range exts {
		if p, ok := byExt[ext]; ok {
			paths = append(paths, p)
		}
	}
	return paths
}

// Open resolves id and loads the table. It also returns the size of the file
// read.
func (c Catalog) Open(id, projectID string) (loader.Table, int64, error) {
	ref, err := c.Resolve(id, projectID)
	if err != nil {
		return loader.Table{}, 0, err
	}
	info, err := os.Stat(ref.Path)
	if err != nil {
		return loader.Table{}, 0, err
	}
	var t loader.Table
	if ref.Sheet != "" || loader.FormatForPath(ref.Path) == loader.FormatXLSX {
		t, err = loader.LoadSheet(ref.Path, ref.Sheet)
	} else {
		t, err = loader.LoadFile(ref.Path)
	}
	if err != nil {
		return loader.Table{}, 0, fmt.Errorf("open %s: %w", ref.ID, err)
	}
	return t, info.Size(), nil
}

// Tables lists the table ids under Root, sorted. Workbooks with more than
// one sheet also list each sheet.
func (c Catalog) Tables(ctx context.Context) ([]string, error) {
	datasets, err := os.ReadDir(c.Root)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var ids []string
	for _, ds := range datasets {
		if !ds.IsDir() || strings.HasPrefix(ds.Name(), ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(filepath.Join(c.Root, ds.Name()))
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				continue
			}
			return nil, fmt.Errorf("read dataset %s: %w", ds.Name(), err)
		}
		seen := map[string]bool{}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !slices.Contains(loader.Extensions, ext) {
				continue
			}
			name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			if name == "" || strings.Contains(name, ".") {
				continue
			}
			id := ds.Name() + "." + name
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
			if ext == ".xlsx" {
				sheets, err := loader.Sheets(filepath.Join(c.Root, ds.Name(), e.Name()))
				if err == nil && len(sheets) > 1 {
					for _, s := range sheets {
						ids = append(ids, id+"."+s)
					}
				}
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

