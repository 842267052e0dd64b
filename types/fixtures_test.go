package types

// block4Body is the body of mainnet block 4: no transactions and one uncle.
var block4Body = []byte{
	0xf9, 0x02, 0x1f, 0xc0, 0xf9, 0x02, 0x1b, 0xf9, 0x02, 0x18, 0xa0, 0xd4,
	0xe5, 0x67, 0x40, 0xf8, 0x76, 0xae, 0xf8, 0xc0, 0x10, 0xb8, 0x6a, 0x40,
	0xd5, 0xf5, 0x67, 0x45, 0xa1, 0x18, 0xd0, 0x90, 0x6a, 0x34, 0xe6, 0x9a,
	0xec, 0x8c, 0x0d, 0xb1, 0xcb, 0x8f, 0xa3, 0xa0, 0x1d, 0xcc, 0x4d, 0xe8,
	0xde, 0xc7, 0x5d, 0x7a, 0xab, 0x85, 0xb5, 0x67, 0xb6, 0xcc, 0xd4, 0x1a,
	0xd3, 0x12, 0x45, 0x1b, 0x94, 0x8a, 0x74, 0x13, 0xf0, 0xa1, 0x42, 0xfd,
	0x40, 0xd4, 0x93, 0x47, 0x94, 0x50, 0x88, 0xd6, 0x23, 0xba, 0x0f, 0xcf,
	0x01, 0x31, 0xe0, 0x89, 0x7a, 0x91, 0x73, 0x4a, 0x4d, 0x83, 0x59, 0x6a,
	0xa0, 0xa0, 0x9a, 0x65, 0x97, 0xb2, 0x6a, 0xdc, 0x0e, 0x59, 0x15, 0xcf,
	0xcc, 0xa5, 0x37, 0xba, 0x49, 0x3a, 0x64, 0x7c, 0xad, 0x1c, 0x3c, 0x92,
	0x3d, 0x40, 0x6c, 0xde, 0xc6, 0xca, 0x49, 0xa0, 0xa0, 0x6d, 0xa0, 0x56,
	0xe8, 0x1f, 0x17, 0x1b, 0xcc, 0x55, 0xa6, 0xff, 0x83, 0x45, 0xe6, 0x92,
	0xc0, 0xf8, 0x6e, 0x5b, 0x48, 0xe0, 0x1b, 0x99, 0x6c, 0xad, 0xc0, 0x01,
	0x62, 0x2f, 0xb5, 0xe3, 0x63, 0xb4, 0x21, 0xa0, 0x56, 0xe8, 0x1f, 0x17,
	0x1b, 0xcc, 0x55, 0xa6, 0xff, 0x83, 0x45, 0xe6, 0x92, 0xc0, 0xf8, 0x6e,
	0x5b, 0x48, 0xe0, 0x1b, 0x99, 0x6c, 0xad, 0xc0, 0x01, 0x62, 0x2f, 0xb5,
	0xe3, 0x63, 0xb4, 0x21, 0xb9, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x85,
	0x03, 0xff, 0x80, 0x00, 0x00, 0x01, 0x82, 0x13, 0x88, 0x80, 0x84, 0x55,
	0xba, 0x42, 0x37, 0xa0, 0x47, 0x65, 0x74, 0x68, 0x2f, 0x76, 0x31, 0x2e,
	0x30, 0x2e, 0x30, 0x2d, 0x66, 0x63, 0x37, 0x39, 0x64, 0x33, 0x32, 0x64,
	0x2f, 0x6c, 0x69, 0x6e, 0x75, 0x78, 0x2f, 0x67, 0x6f, 0x31, 0x2e, 0x34,
	0xa0, 0xd0, 0x45, 0xb8, 0x52, 0x77, 0x01, 0x60, 0xda, 0x16, 0x9e, 0xc7,
	0x93, 0xec, 0x0c, 0x6e, 0x6f, 0xf5, 0x62, 0xe4, 0x73, 0xb2, 0xbf, 0x3f,
	0x81, 0x92, 0xdc, 0x59, 0x84, 0x2e, 0x36, 0xf7, 0x54, 0x88, 0xdb, 0x82,
	0x1a, 0x77, 0x5b, 0xf9, 0xda, 0xce,
}

// block46147Body holds the first mainnet value transfer.
var block46147Body = []byte{
	0xf8, 0x6c, 0xf8, 0x69, 0xf8, 0x67, 0x80, 0x86, 0x2d, 0x79, 0x88, 0x3d,
	0x20, 0x00, 0x82, 0x52, 0x08, 0x94, 0x5d, 0xf9, 0xb8, 0x79, 0x91, 0x26,
	0x2f, 0x6b, 0xa4, 0x71, 0xf0, 0x97, 0x58, 0xcd, 0xe1, 0xc0, 0xfc, 0x1d,
	0xe7, 0x34, 0x82, 0x7a, 0x69, 0x80, 0x1c, 0xa0, 0x88, 0xff, 0x6c, 0xf0,
	0xfe, 0xfd, 0x94, 0xdb, 0x46, 0x11, 0x11, 0x49, 0xae, 0x4b, 0xfc, 0x17,
	0x9e, 0x9b, 0x94, 0x72, 0x1f, 0xff, 0xd8, 0x21, 0xd3, 0x8d, 0x16, 0x46,
	0x4b, 0x3f, 0x71, 0xd0, 0xa0, 0x45, 0xe0, 0xaf, 0xf8, 0x00, 0x96, 0x1c,
	0xfc, 0xe8, 0x05, 0xda, 0xef, 0x70, 0x16, 0xb9, 0xb6, 0x75, 0xc1, 0x37,
	0xa6, 0xa4, 0x1a, 0x54, 0x8f, 0x7b, 0x60, 0xa3, 0x48, 0x4c, 0x06, 0xa3,
	0x3a, 0xc0,
}

// block46147Receipts holds the receipt of that transfer.
var block46147Receipts = []byte{
	0xe6, 0xe5, 0xa0, 0x96, 0xa8, 0xe0, 0x09, 0xd2, 0xb8, 0x8b, 0x14, 0x83,
	0xe6, 0x94, 0x1e, 0x68, 0x12, 0xe3, 0x22, 0x63, 0xb0, 0x56, 0x83, 0xfa,
	0xc2, 0x02, 0xab, 0xc6, 0x22, 0xa3, 0xe3, 0x1a, 0xed, 0x19, 0x57, 0x82,
	0x52, 0x08, 0xc0,
}
