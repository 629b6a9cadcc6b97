package edinet

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

const maxMemberBytes = 128 << 20

// ExtractXBRL opens a filing archive in memory and returns the XBRL instance
// documents it holds. Instances under PublicDoc/ come first, AuditDoc/ last.
// It returns ErrNoStructuredDocument when the archive has no instance at all.
func ExtractXBRL(archive []byte) ([]XBRLDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable archive: %v", ErrDownloadFailed, err)
	}

	var docs []XBRLDocument
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".xbrl") {
			continue
		}
		data, err := readMember(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDownloadFailed, f.Name, err)
		}
		docs = append(docs, XBRLDocument{Name: f.Name, Data: data})
	}

	if len(docs) == 0 {
		return nil, ErrNoStructuredDocument
	}

	sort.SliceStable(docs, func(i, j int) bool {
		ri, rj := memberRank(docs[i].Name), memberRank(docs[j].Name)
		if ri != rj {
			return ri < rj
		}
		return docs[i].Name < docs[j].Name
	})
	return docs, nil
}

// memberRank orders archive members: the filer's own statements, then anything
// unclassified, then the auditor's report.
func memberRank(name string) int {
	switch {
	case strings.Contains(name, "PublicDoc/"):
		return 0
	case strings.Contains(name, "AuditDoc/"):
		return 2
	default:
		return 1
	}
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxMemberBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxMemberBytes {
		return nil, fmt.Errorf("member exceeds %d bytes", maxMemberBytes)
	}
	return data, nil
}
