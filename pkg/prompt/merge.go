package prompt

// Merge reconciles a local document with a freshly fetched remote version of
// the same logical entity. fetchedFrom is the URL the remote content was
// retrieved from and is recorded as the result's source_url; when empty, the
// local source_url is retained.
//
// Rules, in order:
//  1. description: remote wins (upstream is authoritative for metadata).
//  2. tools (chatmode only): union, local order first, then remote-only
//     tools appended. Local additions are never dropped.
//  3. body: replaced wholesale by remote's body. Structural diffing of
//     free-form text is out of scope.
//  4. other header keys: remote values overwrite local ones; local-only
//     keys are preserved unchanged.
//  5. source_url: set to fetchedFrom.
//
// Merge never mutates its inputs and fails with a KindMismatchError when the
// two documents disagree on kind.
func Merge(local, remote *Document, fetchedFrom string) (*Document, error) {
	if local.Kind != remote.Kind {
		return nil, &KindMismatchError{Local: local.Kind, Remote: remote.Kind}
	}

	out := &Document{
		Name: local.Name,
		Kind: local.Kind,
		Body: remote.Body,
	}

	out.Header.Set(KeyDescription, remote.Description())

	// On chatmodes the tools key is merged by union and must not be copied
	// verbatim below. On other kinds it is an uninterpreted header key and
	// follows rule 4 like any other.
	unioned := local.Kind == KindChatmode
	if unioned {
		if tools := unionTools(local.Tools(), remote.Tools()); tools != nil {
			out.Header.Set(KeyTools, tools)
		}
	}

	// Remote-defined keys in remote order, then local-only extras in local
	// order. source_url keeps its position; its value is overwritten below.
	for _, key := range remote.Header.Keys() {
		if key == KeyDescription || (unioned && key == KeyTools) {
			continue
		}
		v, _ := remote.Header.Get(key)
		out.Header.Set(key, copyValue(v))
	}
	for _, key := range local.Header.Keys() {
		if key == KeyDescription || (unioned && key == KeyTools) {
			continue
		}
		if _, ok := out.Header.Get(key); ok {
			continue
		}
		v, _ := local.Header.Get(key)
		out.Header.Set(key, copyValue(v))
	}

	if fetchedFrom == "" {
		fetchedFrom = local.SourceURL()
	}
	if fetchedFrom != "" {
		out.SetSourceURL(fetchedFrom)
	}

	out.Header.canonicalize()
	return out, nil
}

// unionTools merges two tool sets, keeping local ordering first and
// appending remote tools not already present. Returns nil when both sides
// are absent so the result carries no tools key at all.
func unionTools(local, remote []string) []string {
	if local == nil && remote == nil {
		return nil
	}
	return dedupeStrings(append(append([]string(nil), local...), remote...))
}
