// Package batch scores many reference/hypothesis pairs listed in a manifest.
//
// Manifests come in three shapes chosen by file extension: YAML (.yaml,
// .yml), TOML (.toml), or plain text where each line holds "reference |
// hypothesis". Pairs may carry inline text or point at transcript files
// relative to the manifest. Runner evaluates pairs in order, records
// per-pair failures without stopping, and pools the successful pairs into
// corpus-level WER and CER.
package batch
