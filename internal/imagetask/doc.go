// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package imagetask dispatches image fetch tasks for newly imported prints.
//
// Dispatch is fire-and-forget relative to catalog data: it runs after the
// import transaction commits, and a dispatch failure marks the print's
// image status without ever failing the import. The NATS-backed dispatcher
// is behind the nats build tag; without it a logging dispatcher stands in.
package imagetask
