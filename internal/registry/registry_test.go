// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/descriptor"
)

func customJSON(name string, fp uint64, banks int) []byte {
	return []byte(fmt.Sprintf(`{"name":%q,"fingerprint":"0x%016x","parameters":{"banks":%d}}`, name, fp, banks))
}

func TestLoadBuiltins(t *testing.T) {
	reg := New()
	require.NoError(t, reg.LoadBuiltins())
	assert.Equal(t, 7, reg.Len())

	// built-ins may only be loaded once
	err := reg.LoadBuiltins()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBuiltinsLoaded)
	assert.Equal(t, 7, reg.Len())
}

func TestBuiltinSelfLookup(t *testing.T) {
	reg := New()
	require.NoError(t, reg.LoadBuiltins())
	for d := range reg.All() {
		byFP, err := reg.Resolve(d.Fingerprint)
		require.NoError(t, err, d.Name)
		assert.Equal(t, d.Name, byFP.Name)

		byName, err := reg.ResolveByName(d.Name)
		require.NoError(t, err, d.Name)
		assert.Equal(t, d.Fingerprint, byName.Fingerprint)
	}
}

func TestRegisterCustomScenario(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterCustom(customJSON("DPUCZ-B4096", 0x0101040400000fff, 4096)))

	d, err := reg.Resolve(0x0101040400000fff)
	require.NoError(t, err)
	assert.Equal(t, "DPUCZ-B4096", d.Name)
	assert.Equal(t, int64(4096), d.Parameters.Int("banks"))

	d, err = reg.ResolveByName("DPUCZ-B4096")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0101040400000fff), d.Fingerprint)

	// same name, different fingerprint
	err = reg.RegisterCustom(customJSON("DPUCZ-B4096", 0x0102040400000fff, 4096))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)

	// different name, same fingerprint
	err = reg.RegisterCustom(customJSON("DPUCZ-OTHER", 0x0101040400000fff, 4096))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateFingerprint)

	assert.Equal(t, 1, reg.Len())
}

func TestRegisterCustomMalformed(t *testing.T) {
	reg := New()
	err := reg.RegisterCustom([]byte(`{"fingerprint":"0x01"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, descriptor.ErrMalformedDescriptor)
	assert.Equal(t, 0, reg.Len(), "a malformed descriptor must never be partially registered")
}

func TestResolveCompatibilityFallback(t *testing.T) {
	reg := New()
	require.NoError(t, reg.LoadBuiltins())

	// no exact entry: B4096 identity (arch 1, version 1, features 0x0004e3ff)
	// with a different core count and frequency class
	d, err := reg.Resolve(0x01010a050004e3ff)
	require.NoError(t, err)
	assert.Equal(t, "DPUCZDX8G-B4096", d.Name)
}

func TestResolveNotFound(t *testing.T) {
	reg := New()
	require.NoError(t, reg.LoadBuiltins())

	// no built-in shares this identity
	_, err := reg.Resolve(0x7f01010300000001)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = reg.ResolveByName("NO-SUCH-TARGET")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveRanksByFrequencyThenOrder(t *testing.T) {
	reg := New()
	// identical identity, frequency classes 3 and 6
	require.NoError(t, reg.RegisterCustom(customJSON("SLOW", 0x0101040300000001, 1)))
	require.NoError(t, reg.RegisterCustom(customJSON("FAST", 0x0101040600000001, 1)))

	// query freq class 7: FAST is nearer
	d, err := reg.Resolve(0x0101040700000001)
	require.NoError(t, err)
	assert.Equal(t, "FAST", d.Name)

	// query freq class 2: SLOW is nearer
	d, err = reg.Resolve(0x0101040200000001)
	require.NoError(t, err)
	assert.Equal(t, "SLOW", d.Name)

	// equidistant (classes 3 and 6 around 4 would not tie; use 4/5 midpoint):
	// register a registry where two candidates tie and the earlier wins
	tie := New()
	require.NoError(t, tie.RegisterCustom(customJSON("FIRST", 0x0101040500000001, 1)))
	require.NoError(t, tie.RegisterCustom(customJSON("SECOND", 0x0101040300000001, 1)))
	d, err = tie.Resolve(0x0101040400000001)
	require.NoError(t, err)
	assert.Equal(t, "FIRST", d.Name, "registration order breaks ranking ties")
}

func TestResolveDeterministic(t *testing.T) {
	reg := New()
	require.NoError(t, reg.LoadBuiltins())
	queries := []uint64{
		0x010104040004e3ff, // exact
		0x01010a050004e3ff, // compatible
		0x010101010000e3bf, // compatible with several, ranked
	}
	for _, q := range queries {
		first, err := reg.Resolve(q)
		require.NoError(t, err)
		for range 10 {
			again, err := reg.Resolve(q)
			require.NoError(t, err)
			assert.Equal(t, first.Name, again.Name)
		}
	}
}

func TestConcurrentResolve(t *testing.T) {
	reg := New()
	require.NoError(t, reg.LoadBuiltins())

	queries := []uint64{
		0x010104040004e3ff,
		0x010101030000e3bf,
		0x01010a050004e3ff,
		0x020105070000e3ff,
	}
	// sequential reference results
	want := make([]string, len(queries))
	for i, q := range queries {
		d, err := reg.Resolve(q)
		require.NoError(t, err)
		want[i] = d.Name
	}

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers*len(queries))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, q := range queries {
				d, err := reg.Resolve(q)
				if err != nil {
					errs <- err
					continue
				}
				if d.Name != want[i] {
					errs <- fmt.Errorf("query 0x%016x: got %s, want %s", q, d.Name, want[i])
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestConcurrentRegistrationAndResolve(t *testing.T) {
	reg := New()
	require.NoError(t, reg.LoadBuiltins())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 50 {
			fp := uint64(0x0301020500000000) + uint64(i)
			_ = reg.RegisterCustom(customJSON(fmt.Sprintf("CUSTOM-%d", i), fp, i+1))
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			if _, err := reg.Resolve(0x010104040004e3ff); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()
	assert.Equal(t, 57, reg.Len())
}
