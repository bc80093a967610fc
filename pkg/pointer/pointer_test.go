// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/dvfmap/pkg/pointer"
)

func TestTo(t *testing.T) {
	bounds := [2]float64{1, 2}
	p := pointer.To(bounds)
	bounds[0] = 9

	assert.Equal(t, [2]float64{1, 2}, *p)
}
