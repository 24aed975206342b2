// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleRatings = `userId,movieId,rating,timestamp
1,1,4.0,964982703
1,3,4.0,964981247
1,6,4.0,964982224
2,1,5.0,964982931
2,6,3.5,964983815
3,3,2.5,964982400
3,99,1.0,964982400
3,7,3.0,964982400
3,8,4.5,964982400
`

// Movie 6 is listed twice; movie 99 has no listing. Titles 7 and 8 carry
// whitespace that must survive loading.
const sampleMovies = `movieId,title,genres
1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
3,Grumpier Old Men (1995),Comedy|Romance
6,Heat (1995),Action|Crime|Thriller
6,"American President, The (1995)",Comedy|Drama|Romance
7,  Sabrina (1995)  ,Comedy|Romance
8,"Up (2009) ",Adventure|Animation
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeSample(t *testing.T) (ratings, movies string) {
	t.Helper()
	dir := t.TempDir()
	return writeFile(t, dir, "ratings.csv", sampleRatings), writeFile(t, dir, "movies.csv", sampleMovies)
}
