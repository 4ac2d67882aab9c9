package utils

const DefaultBufferSize = 1024 * 1024 * 8 // 8MB buffer

// SplitThreshold is the file size above which a completed download is
// split into parts before delivery.
const SplitThreshold = int64(2) * 1024 * 1024 * 1024 // 2 GiB

// DefaultPartSize bounds each split part so that no single part ever
// exceeds the delivery size cap.
const DefaultPartSize = SplitThreshold

const ToolUserAgent = "parcel/1.0"
