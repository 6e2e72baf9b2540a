package mesh

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/o0olele/octree-rope/math32"
)

// LoadOBJ reads a Wavefront OBJ file from disk.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	m, err := ReadOBJ(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return m, nil
}

// ReadOBJ parses the geometry of a Wavefront OBJ stream. Only "v", "vn" and
// "f" statements are interpreted; faces with more than three corners are
// triangulated as fans. Statements for materials, groups and texture
// coordinates are skipped.
//
// Normals are attached per vertex when every face corner names one. If a
// vertex is given different normals by different faces the last one wins.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	p := &objParser{}
	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "v":
			var v math32.Vector3
			if v, err = parseVec3(lineTokens); err == nil {
				p.vertices = append(p.vertices, v)
			}
		case "vn":
			var v math32.Vector3
			if v, err = parseVec3(lineTokens); err == nil {
				p.normals = append(p.normals, v)
			}
		case "f":
			err = p.parseFace(lineTokens)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning obj")
	}
	return p.mesh()
}

type objParser struct {
	vertices []math32.Vector3
	normals  []math32.Vector3
	indices  []uint32

	// normal index per vertex, -1 when none was given
	vertexNormal  []int
	missingNormal bool
}

func (p *objParser) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return errors.Errorf("unsupported syntax for 'f'; expected at least 3 arguments; got %d", len(lineTokens)-1)
	}

	corners := make([]uint32, 0, len(lineTokens)-1)
	for _, tok := range lineTokens[1:] {
		vIdx, nIdx, err := p.parseCorner(tok)
		if err != nil {
			return err
		}
		corners = append(corners, vIdx)

		for len(p.vertexNormal) < len(p.vertices) {
			p.vertexNormal = append(p.vertexNormal, -1)
		}
		if nIdx < 0 {
			p.missingNormal = true
		} else {
			p.vertexNormal[vIdx] = nIdx
		}
	}

	for i := 1; i+1 < len(corners); i++ {
		p.indices = append(p.indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// parseCorner decodes "v", "v/vt", "v//vn" or "v/vt/vn" into zero based
// vertex and normal indices. The normal index is -1 when absent.
func (p *objParser) parseCorner(tok string) (uint32, int, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return 0, -1, errors.Errorf("malformed face corner %q", tok)
	}

	vIdx, err := resolveIndex(parts[0], len(p.vertices))
	if err != nil {
		return 0, -1, errors.Wrapf(err, "vertex of corner %q", tok)
	}

	nIdx := -1
	if len(parts) == 3 && parts[2] != "" {
		n, err := resolveIndex(parts[2], len(p.normals))
		if err != nil {
			return 0, -1, errors.Wrapf(err, "normal of corner %q", tok)
		}
		nIdx = n
	}
	return uint32(vIdx), nIdx, nil
}

// resolveIndex turns a one based (or negative, relative) OBJ index into a zero
// based one.
func resolveIndex(tok string, count int) (int, error) {
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing index %q", tok)
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return 0, errors.Errorf("index %d out of range; %d defined so far", i, count)
}

func (p *objParser) mesh() (*Mesh, error) {
	var normals []math32.Vector3
	if !p.missingNormal && len(p.normals) > 0 {
		normals = make([]math32.Vector3, len(p.vertices))
		for v := range normals {
			if v < len(p.vertexNormal) && p.vertexNormal[v] >= 0 {
				normals[v] = p.normals[p.vertexNormal[v]]
			}
		}
	}
	return New(p.vertices, p.indices, normals)
}

func parseVec3(lineTokens []string) (math32.Vector3, error) {
	if len(lineTokens) < 4 {
		return math32.Vector3{}, errors.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}
	var v math32.Vector3
	for axis := 0; axis < 3; axis++ {
		f, err := strconv.ParseFloat(lineTokens[axis+1], 32)
		if err != nil {
			return math32.Vector3{}, errors.Wrapf(err, "parsing %s component %d", lineTokens[0], axis)
		}
		v = v.With(axis, float32(f))
	}
	return v, nil
}
