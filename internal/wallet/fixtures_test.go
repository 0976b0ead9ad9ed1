package wallet

// Mnemonics of the accounts used by the chain integration suites.
const (
	signer1Mnemonic     = "shed crumble dismiss loyal latin million oblige gesture shrug still oxygen custom remove ribbon disorder palace addict again blanket sad flock consider obey popular"
	delegator1Mnemonic  = "yard night airport critic main upper measure metal unhappy cliff pistol square upon access math owner enemy unfold scan small injury blind aunt million"
	delegator2Mnemonic  = "strong pyramid worth tennis option wet broccoli smoke midnight maze hint soft hen ignore shuffle multiply room recycle hurt degree crouch drill economy surge"
	abandonMnemonic     = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	defaultCroPath      = "m/44'/394'/0'/0/0"
	signer1Address      = "cro1u08u5dvtnpmlpdq333uj9tcj75yceggszxpnsy"
	signer1PubKeyHex    = "02d84bacd498740b10db3bafc2af6d0e2530a3ab6de59ddd1ecb6ee7f4dfbe842d"
	signer1Index1Addr   = "cro1f22xmhtzcssvm89ah06dlljje0zrextn70snwr"
	delegator1Address   = "cro1ykec6vralvrh5vcvpf7w7u02gj728u4wp738kz"
	delegator1PubKeyHex = "03a95a33d2e2da0024c796f094fd1a43952f9472aaafb65cb0546b018296962855"
	delegator2Address   = "cro1tmfhgwp62uhz5y5hqcyl8jkjq22l2cles2lum8"
)
