// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package descriptor

import "errors"

// ErrMalformedDescriptor is returned by Decode for any schema violation:
// missing required fields, type mismatches, or unparseable input. It is
// wrapped with detail; match with errors.Is.
var ErrMalformedDescriptor = errors.New("malformed descriptor")
