package pagination

// LimitDefault is the default page size if not specified
const LimitDefault = 100

// LimitMax is the maximum allowed page size
const LimitMax = 100
