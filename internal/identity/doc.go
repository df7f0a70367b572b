// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package identity provides the pure functions producing deterministic
// identity keys for the catalog: oracle hashes, print hashes, SKU strings,
// and best-image selection.
//
// Everything here is side-effect free and safe for concurrent use. Hashes
// are SHA-256 hex digests over case- and whitespace-normalized content, so
// the same semantic card always produces the same keys regardless of which
// provider or run it came from.
package identity
