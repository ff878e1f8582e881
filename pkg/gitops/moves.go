// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitops

import (
	"context"
	"strconv"
	"strings"

	werr "github.com/archmagece/wald/internal/errors"
)

const baumManifestSuffix = ".baum/manifest.yaml"

// Move is one detected container rename between two commits.
type Move struct {
	OldContainer string
	NewContainer string
	Similarity   int
}

// DetectMoves runs Git's rename detection between from and to and
// returns every container rename: a renamed .baum/manifest.yaml whose
// old and new paths, with that suffix stripped, become the old and
// new container paths.
func (g *Git) DetectMoves(ctx context.Context, dir, from, to string) ([]Move, error) {
	out, err := g.exec.RunOutput(ctx, dir, "diff", "-M", "--name-status", "--first-parent", "--diff-filter=R", from+".."+to)
	if err != nil {
		return nil, werr.Contextf(err, "detect moves between %s and %s", from, to)
	}
	return parseMoves(out), nil
}

func parseMoves(output string) []Move {
	var moves []Move
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			continue
		}
		status, oldPath, newPath := fields[0], fields[1], fields[2]
		if !strings.HasPrefix(status, "R") {
			continue
		}
		if !strings.HasSuffix(oldPath, baumManifestSuffix) {
			continue
		}

		similarity := 100
		if n, err := strconv.Atoi(strings.TrimPrefix(status, "R")); err == nil {
			similarity = n
		}

		moves = append(moves, Move{
			OldContainer: strings.TrimSuffix(strings.TrimSuffix(oldPath, baumManifestSuffix), "/"),
			NewContainer: strings.TrimSuffix(strings.TrimSuffix(newPath, baumManifestSuffix), "/"),
			Similarity:   similarity,
		})
	}
	return moves
}
